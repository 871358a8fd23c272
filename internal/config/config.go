package config

import (
	"os"
	"runtime"
	"strconv"
)

// Config holds runtime defaults shared by the CLI and the render server.
// Command-line flags override these.
type Config struct {
	OutputDir   string
	Duration    int // seconds
	MaxDuration int // seconds; server requests above this are rejected
	Workers     int
	Port        string
	GRPCPort    string // gRPC health probe
	APIKey      string // empty disables auth on the render API
	Debug       bool
}

func Load() *Config {
	return &Config{
		OutputDir:   getEnv("SPIRIT_OUTPUT_DIR", "."),
		Duration:    getEnvInt("SPIRIT_DURATION", 300),
		MaxDuration: getEnvInt("SPIRIT_MAX_DURATION", 3600),
		Workers:     getEnvInt("SPIRIT_WORKERS", runtime.NumCPU()),
		Port:        getEnv("SPIRIT_PORT", "8080"),
		GRPCPort:    getEnv("SPIRIT_GRPC_PORT", "9090"),
		APIKey:      getEnv("SPIRIT_API_KEY", ""),
		Debug:       getEnvBool("SPIRIT_DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
