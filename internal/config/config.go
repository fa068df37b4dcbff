// Package config reads phonecheck defaults from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envEnv       = "PHONECHECK_ENV"
	envCountry   = "PHONECHECK_COUNTRY"
	envPlans     = "PHONECHECK_PLANS"
	envWorkers   = "PHONECHECK_WORKERS"
	envBatchSize = "PHONECHECK_BATCH_SIZE"
)

type Config struct {
	// Env selects the log format: "development" logs text, anything else JSON.
	Env       string
	Country   string
	PlansFile string
	Workers   int
	BatchSize int
}

// Load never fails: a missing .env file is normal and malformed numbers fall
// back to defaults.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)

	return Config{
		Env:       getenv(envEnv, "production"),
		Country:   strings.ToUpper(getenv(envCountry, "TR")),
		PlansFile: getenv(envPlans, ""),
		Workers:   getenvInt(envWorkers, 0),
		BatchSize: getenvInt(envBatchSize, 128),
	}
}

func getenv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getenvInt(key string, def int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}
