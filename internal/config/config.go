package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	GeminiAPIKey       string
	GeminiModel        string
	ProbeURL           string
	LogFile            string
	ExpressionInterval time.Duration
	ProbeInterval      time.Duration
}

func Load() Config {
	return Config{
		Port:               getenv("PORT", "8080"),
		GeminiAPIKey:       getenv("GEMINI_API_KEY", ""),
		GeminiModel:        getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		ProbeURL:           getenv("PROBE_URL", "https://www.google.com/generate_204"),
		LogFile:            getenv("LOG_FILE", ""),
		ExpressionInterval: getenvMs("EXPRESSION_INTERVAL_MS", 500),
		ProbeInterval:      getenvMs("PROBE_INTERVAL_MS", 5000),
	}
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvMs(k string, d int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return time.Duration(d) * time.Millisecond
}
