package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	HTTP          struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"http"`
	Ignored string `mapstructure:"-"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "svc"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Logging.Level)
	}

	cfg = ServiceConfig{Name: "svc", Debug: true}
	cfg.ApplyDefaults()
	if cfg.Logging.Level != "debug" {
		t.Errorf("debug should lower the log level, got %q", cfg.Logging.Level)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", `
name: apiclient
environment: staging
http:
  base_url: http://localhost:8080
  timeout: 3s
logging:
  level: warn
`)

	var cfg testConfig
	if err := LoadConfig("apiclient", &cfg, WithSearchDirs(dir)); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Name != "apiclient" || cfg.Environment != "staging" {
		t.Errorf("service fields not loaded: %+v", cfg.ServiceConfig)
	}
	if cfg.HTTP.BaseURL != "http://localhost:8080" || cfg.HTTP.Timeout != 3*time.Second {
		t.Errorf("http section not loaded: %+v", cfg.HTTP)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "http:\n  base_url: http://file\n")
	t.Setenv("TEST_HTTP_BASE_URL", "http://env")
	t.Setenv("TEST_HTTP_TIMEOUT", "250ms")

	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithSearchDirs(dir), WithEnvPrefix("test")); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.HTTP.BaseURL != "http://env" {
		t.Errorf("base_url = %q, want env value", cfg.HTTP.BaseURL)
	}
	if cfg.HTTP.Timeout != 250*time.Millisecond {
		t.Errorf("timeout = %v, want 250ms", cfg.HTTP.Timeout)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "custom.env", "DOTENVTEST_NAME=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENVTEST_NAME") })

	var cfg testConfig
	err := LoadConfig("svc", &cfg, WithSearchDirs(dir), WithEnvFile(envFile), WithEnvPrefix("DOTENVTEST"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("name = %q, want from-dotenv", cfg.Name)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile(filepath.Join(t.TempDir(), "nope.yml"))); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadConfig_NoFiles(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithSearchDirs(t.TempDir())); err != nil {
		t.Fatalf("LoadConfig() without files should succeed, got %v", err)
	}
}

func TestKeyPaths(t *testing.T) {
	got := keyPaths(reflect.TypeOf(&testConfig{}), "")
	want := []string{
		"name", "environment", "version", "debug",
		"logging.level", "logging.format", "logging.output",
		"logging.no_color", "logging.timestamp", "logging.caller",
		"http.base_url", "http.timeout",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keyPaths() =\n%v\nwant\n%v", got, want)
	}
}

func TestEnvName(t *testing.T) {
	if got := envName("apiclient", "http.base_url"); got != "APICLIENT_HTTP_BASE_URL" {
		t.Errorf("got %q", got)
	}
	if got := envName("", "auth.login_path"); got != "AUTH_LOGIN_PATH" {
		t.Errorf("got %q", got)
	}
}
