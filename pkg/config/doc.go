// Package config loads environment variables into typed configuration
// structs using caarlos0/env field tags, with a .env file loaded once via
// godotenv for local development. Each configuration type is parsed once
// per process and cached; subsequent loads return the cached value.
package config
