// Package config loads typed configuration structs from the environment with
// github.com/caarlos0/env, reading an optional .env file through
// github.com/joho/godotenv first. Results are cached per struct type.
package config
