package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// New snapshots the process environment into a key/value map
func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return asBool
}

// GetStrings splits a comma separated value, dropping blank items
func GetStrings(config map[string]string, key string) []string {
	s, ok := config[key]
	if !ok {
		return nil
	}

	var values []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	return values
}

// GetMillis reads an integer number of milliseconds as a duration
func GetMillis(config map[string]string, key string, defaultValue time.Duration) time.Duration {
	ms := GetInt(config, key, -1)
	if ms < 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
