// Package config loads configuration for fetchkit binaries.
//
// LoadConfig reads config.yml with Viper, loads a .env file with godotenv and
// applies FETCHKIT_-prefixed environment overrides before unmarshaling into
// a struct tagged with mapstructure:
//
//	var cfg Config
//	if err := config.LoadConfig("fetch", &cfg); err != nil {
//	    return err
//	}
package config
