package config

import (
	"os"
	"strconv"
	"sync"

	"obstruction/internal/game"
)

type Config struct {
	BoardSize int    `json:"boardSize"`
	HTTPAddr  string `json:"httpAddr"`
	DBPath    string `json:"dbPath"`
	LogLevel  string `json:"logLevel"`
	LogPretty bool   `json:"logPretty"`
	// AISeed makes the computer's tie-breaks reproducible. Zero means random.
	AISeed int64 `json:"aiSeed"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func Load() Config {
	cfg := Config{
		BoardSize: getenvInt("BOARD_SIZE", game.DefaultSize),
		HTTPAddr:  getenv("HTTP_ADDR", ":8080"),
		DBPath:    getenv("DB_PATH", "data/obstruction.db"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: getenvBool("LOG_PRETTY", false),
		AISeed:    int64(getenvInt("AI_SEED", 0)),
	}
	if cfg.BoardSize <= 0 {
		cfg.BoardSize = game.DefaultSize
	}
	return cfg
}

var (
	once    sync.Once
	current *Config
)

// Get returns the process-wide configuration, loading it from the
// environment on first use.
func Get() *Config {
	once.Do(func() {
		cfg := Load()
		current = &cfg
	})
	return current
}
