// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// JWTSecret is the HMAC key used to sign access tokens.
	JWTSecret string

	// TokenTTLMinutes is the access token lifetime in minutes.
	TokenTTLMinutes int

	// RateLimitPerMinute caps requests per client per minute.
	RateLimitPerMinute int

	// ScoreRetentionDays is how long score snapshots are kept.
	ScoreRetentionDays int

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "s", "", "jwt signing secret")
	flag.IntVar(&options.TokenTTLMinutes, "ttl", 30, "access token ttl in minutes")
	flag.IntVar(&options.RateLimitPerMinute, "rl", 60, "requests per client per minute")
	flag.IntVar(&options.ScoreRetentionDays, "retention", 365, "days to keep score snapshots")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL_MINUTES"); ttl != "" {
		if v, err := strconv.Atoi(ttl); err == nil {
			options.TokenTTLMinutes = v
		}
	}
	if rl := os.Getenv("RATE_LIMIT_PER_MINUTE"); rl != "" {
		if v, err := strconv.Atoi(rl); err == nil {
			options.RateLimitPerMinute = v
		}
	}

	return options
}
