package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"shorthorizon/internal/treatment"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath      string
	LogDir        string
	SampleSize    int
	RoundsPerGame int

	// CostOverride replaces the per-treatment cost table when set. Supplied
	// via RCPU/WCPU/SCPU; all three must be present.
	CostOverride *treatment.UnitCosts
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	cfg := &AppConfig{
		DataPath:      dataPath,
		LogDir:        logDir,
		SampleSize:    getEnvInt("SAMPLE_SIZE", treatment.DefaultSampleSize),
		RoundsPerGame: getEnvInt("ROUNDS_PER_GAME", 12),
	}

	if costs, ok := costOverrideFromEnv(); ok {
		cfg.CostOverride = &costs
	}

	return cfg, nil
}

// costOverrideFromEnv reads the RCPU/WCPU/SCPU triple. A partial triple is
// ignored with a warning rather than guessed at.
func costOverrideFromEnv() (treatment.UnitCosts, bool) {
	rcpu, okR := getEnvFloat("RCPU")
	wcpu, okW := getEnvFloat("WCPU")
	scpu, okS := getEnvFloat("SCPU")

	if !okR && !okW && !okS {
		return treatment.UnitCosts{}, false
	}
	if !okR || !okW || !okS {
		log.Warn().Msg("Partial unit-cost override ignored; set all of RCPU, WCPU and SCPU")
		return treatment.UnitCosts{}, false
	}
	return treatment.UnitCosts{Retail: rcpu, Wholesale: wcpu, Salvage: scpu}, true
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvFloat(key string) (float64, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
		return 0, false
	}
	return floatVal, true
}
