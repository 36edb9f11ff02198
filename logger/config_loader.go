package logger

import (
	"flag"
	"os"
	"strings"
)

var (
	logLevelFlag = flag.String("log_level", "", "Log level (debug, info, warn, error)")
	logFileFlag  = flag.String("log_file", "", "Path of the local log file")
	appNameFlag  = flag.String("app_name", "", "Application name used in log records")
	envFlag      = flag.String("env", "", "Environment name (development, staging, production)")
)

// LoadConfig loads logger config from flags and environment variables.
// Flags take precedence over environment variables.
// The caller must call flag.Parse() before calling this function.
func LoadConfig() (*Config, error) {
	// Start with default values
	levelStr := ""
	logFile := ""
	appName := ""
	envName := ""

	// Use flag values if they were set
	if logLevelFlag != nil && *logLevelFlag != "" {
		levelStr = *logLevelFlag
	}
	if logFileFlag != nil && *logFileFlag != "" {
		logFile = *logFileFlag
	}
	if appNameFlag != nil && *appNameFlag != "" {
		appName = *appNameFlag
	}
	if envFlag != nil && *envFlag != "" {
		envName = *envFlag
	}

	// Fall back to environment variables if flags not set
	if levelStr == "" {
		levelStr = getEnv("LOG_LEVEL", "info")
	}
	if logFile == "" {
		logFile = os.Getenv("LOG_FILE")
	}
	if appName == "" {
		appName = getEnv("APP_NAME", "docker-stats-tracker")
	}
	if envName == "" {
		envName = getEnv("ENV", "development")
	}

	level := ParseLevel(strings.ToLower(levelStr))

	return &Config{
		Level:       level,
		LogFile:     logFile,
		AppName:     appName,
		Environment: envName,
		Output:      nil, // Set by caller if needed
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// EnvVarHelp describes one environment variable understood by the logger.
type EnvVarHelp struct {
	Name        string
	Description string
}

// GetEnvVarsHelp lists the environment variables LoadConfig reads, for use in
// the command's usage output.
func GetEnvVarsHelp() []EnvVarHelp {
	return []EnvVarHelp{
		{"LOG_LEVEL", "Log level (debug, info, warn, error)"},
		{"LOG_FILE", "Path of the local log file (unset disables the file sink)"},
		{"APP_NAME", "Application name used in log records"},
		{"ENV", "Environment (development, staging, production)"},
	}
}
