package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvString returns the trimmed value of name when it is set and non-empty.
func EnvString(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses name as an integer when it is set.
func EnvInt(name string) (int, bool, error) {
	raw, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return value, true, nil
}

// EnvDuration parses name with time.ParseDuration when it is set.
func EnvDuration(name string) (time.Duration, bool, error) {
	raw, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return value, true, nil
}

// EnvBool parses name with strconv.ParseBool when it is set.
func EnvBool(name string) (bool, bool, error) {
	raw, ok := EnvString(name)
	if !ok {
		return false, false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", name, err)
	}
	return value, true, nil
}

// ApplyEnv overlays HARVEST_* environment variables on cfg.
func ApplyEnv(cfg *Config) error {
	if value, ok := EnvString("HARVEST_BASE_URL"); ok {
		cfg.BaseURL = value
	}
	if value, ok := EnvString("HARVEST_STATE_FILE"); ok {
		cfg.StateFile = value
	}
	if value, ok := EnvString("HARVEST_OUTPUT"); ok {
		cfg.OutputFile = value
	}
	if value, ok := EnvString("HARVEST_FORMAT"); ok {
		cfg.OutputFormat = strings.ToLower(value)
	}
	if value, ok := EnvString("HARVEST_OUTPUT_DIR"); ok {
		cfg.OutputDir = value
	}
	if value, ok := EnvString("HARVEST_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}
	if value, ok := EnvString("HARVEST_USER_AGENT"); ok {
		cfg.UserAgent = value
	}
	if value, ok, err := EnvDuration("HARVEST_TIMEOUT"); err != nil {
		return err
	} else if ok {
		cfg.Timeout = value
	}
	if value, ok, err := EnvDuration("HARVEST_DELAY"); err != nil {
		return err
	} else if ok {
		cfg.Delay = value
	}
	if value, ok, err := EnvInt("HARVEST_CACHE_SIZE"); err != nil {
		return err
	} else if ok {
		cfg.DetailCacheSize = value
	}
	if value, ok, err := EnvBool("HARVEST_ASSETS"); err != nil {
		return err
	} else if ok {
		cfg.DownloadAssets = value
	}
	return nil
}
