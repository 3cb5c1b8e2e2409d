package config

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slog"
)

// lookupEnv returns the trimmed value of key and whether it carries anything
func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// parseEnv reads key through parse, keeping fallback when the variable is unset or
// malformed. Malformed values are logged so a typo does not pass silently
func parseEnv[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := lookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := parse(raw)
	if err != nil {
		slog.Warn("Ignoring malformed environment variable", "key", key, "value", raw, "error", err)
		return fallback
	}
	return parsed
}

// GetEnv returns the trimmed value of key or fallback when it is unset or blank
func GetEnv(key, fallback string) string {
	if value, ok := lookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvAsBool reads key as a boolean
func GetEnvAsBool(key string, fallback bool) bool {
	return parseEnv(key, fallback, strconv.ParseBool)
}

// GetEnvAsInt reads key as a base 10 integer
func GetEnvAsInt(key string, fallback int) int {
	return parseEnv(key, fallback, strconv.Atoi)
}

// GetEnvAsSlice splits key on sep, dropping blank parts. A value with no non-blank
// part keeps fallback
func GetEnvAsSlice(key, sep string, fallback []string) []string {
	return parseEnv(key, fallback, func(raw string) ([]string, error) {
		var out []string
		for _, p := range strings.Split(raw, sep) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return fallback, nil
		}
		return out, nil
	})
}
