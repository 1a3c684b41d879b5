// Package config loads audiovault configuration.
//
// Values come from, in increasing priority: component defaults, a config
// file (config.yml, config.yaml or config.toml found in the usual
// locations or passed explicitly), a .env file loaded with godotenv, and
// the process environment. Environment variables map onto nested keys by
// splitting on underscores, so STORE_PATH sets store.path and CRYPTO_KEY
// sets crypto.key.
//
// # Usage
//
//	var cfg config.AppConfig
//	if err := config.LoadConfig("audiovault", &cfg, config.WithConfigFile(path)); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
