package config

import (
	"os"
	"strings"
)

const (
	LogLevelEnvKey     = `TRAINRUN_CONFIG_LOG_LEVEL`
	ShowDebugLogEnvKey = `TRAINRUN_CONFIG_SHOW_DEBUG_LOG`
)

var ConfigEnvKeys = []string{
	LogLevelEnvKey,
	ShowDebugLogEnvKey,
}

var (
	LogLevel     = `INFO`
	ShowDebugLog = false
)

func init() {
	if val := os.Getenv(LogLevelEnvKey); len(val) > 0 {
		LogLevel = strings.ToUpper(val)
	}
	if val := os.Getenv(ShowDebugLogEnvKey); len(val) > 0 {
		ShowDebugLog = isTrue(val)
	}
}

func isTrue(val string) bool {
	return val == "true"
}
