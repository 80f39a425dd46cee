package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig holds the options for LoadConfig.
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
	// SearchDirs are tried in order when ConfigFile or EnvFile is empty.
	SearchDirs []string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path. A missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path. A missing explicit file is an error.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix, e.g. "APICLIENT".
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithSearchDirs replaces the directories searched for config.yml and .env.
func WithSearchDirs(dirs ...string) LoaderOption {
	return func(lc *LoaderConfig) { lc.SearchDirs = dirs }
}

// defaultSearchDirs returns where a service's files are looked up.
func defaultSearchDirs(serviceName string) []string {
	dirs := []string{".", "./config", filepath.Join("./cmd", serviceName)}
	if home, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, serviceName))
	}
	return dirs
}

// LoadConfig fills cfg, a pointer to a struct, from the config file, the
// .env file and the environment. Missing search-path files are skipped.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.SearchDirs == nil {
		lc.SearchDirs = defaultSearchDirs(serviceName)
	}

	v := viper.New()

	configFile, err := resolve(lc.ConfigFile, lc.SearchDirs, "config.yml", "config.yaml")
	if err != nil {
		return err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	envFile, err := resolve(lc.EnvFile, lc.SearchDirs, ".env."+serviceName, ".env")
	if err != nil {
		return err
	}
	if envFile != "" {
		// godotenv.Load never overrides variables already set in the process.
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	for _, key := range keyPaths(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key, envName(lc.EnvPrefix, key)); err != nil {
			return fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for service %s: %w", serviceName, err)
	}
	return nil
}

// resolve returns explicit if set (erroring when missing), otherwise the
// first existing candidate in dirs, or "".
func resolve(explicit string, dirs []string, names ...string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return explicit, nil
	}
	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("config: %w", err)
			}
		}
	}
	return "", nil
}

// envName maps "http.base_url" to "PREFIX_HTTP_BASE_URL".
func envName(prefix, key string) string {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}

// keyPaths lists the dotted mapstructure key of every leaf field in t.
func keyPaths(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("mapstructure")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		isStruct := ft.Kind() == reflect.Struct && ft.PkgPath() != "time"

		if strings.Contains(opts, "squash") || (f.Anonymous && name == "") {
			keys = append(keys, keyPaths(ft, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if isStruct {
			keys = append(keys, keyPaths(ft, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
