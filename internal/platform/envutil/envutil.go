package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

func String(key, def string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", def)
		}
		return def
	}
	if log != nil {
		log.Debug("Environment variable found, using environment", "environment", val)
	}
	return val
}

func Int(key string, def int, log *logger.Logger) int {
	if log != nil {
		log = log.With("env_var", key)
	}
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", def)
		}
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default", "providedVal", raw, "defaultVal", def, "error", err)
		}
		return def
	}
	return i
}

func Bool(key string, def bool, log *logger.Logger) bool {
	if log != nil {
		log = log.With("env_var", key)
	}
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch raw {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		if log != nil {
			log.Debug("Environment variable could not be parsed as bool, using default", "providedVal", raw, "defaultVal", def)
		}
		return def
	}
}

// Secret reads key like String but never logs the value.
func Secret(key, def string, log *logger.Logger) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		if log != nil {
			log.Debug("Secret environment variable not set", "env_var", key)
		}
		return def
	}
	return val
}

func Float(key string, def float64, log *logger.Logger) float64 {
	if log != nil {
		log = log.With("env_var", key)
	}
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as float, using default", "providedVal", raw, "defaultVal", def, "error", err)
		}
		return def
	}
	return f
}

// List splits a comma separated variable, dropping blank entries.
func List(key string, def []string, log *logger.Logger) []string {
	raw := String(key, "", log)
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
