// Package config loads layered configuration with Viper.
//
// Values are resolved in increasing priority: struct defaults, a YAML
// config file, a .env file, then process environment variables. Every
// mapstructure key path is bound to an environment variable formed from an
// optional prefix and the upper-cased path joined by underscores:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTP struct {
//	        BaseURL string `mapstructure:"base_url"`
//	    } `mapstructure:"http"`
//	}
//
//	// APICLIENT_HTTP_BASE_URL overrides http.base_url
//	err := config.LoadConfig("apiclient", &cfg, config.WithEnvPrefix("APICLIENT"))
package config
