package main

import (
	"fmt"
	"os"

	"github.com/macflow/macflow/cmd"
	"github.com/macflow/macflow/internal/config"
	"github.com/macflow/macflow/internal/logger"
)

func main() {
	// Get app configuration file from environment if specified
	configFile := os.Getenv("MACFLOW_CONFIG")

	// 1. Initialize application configuration
	if err := config.Initialize(configFile); err != nil {
		// For app configuration errors, we print to stderr and exit since we can't continue
		fmt.Fprintf(os.Stderr, "Error initializing configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logging based on application configuration
	if err := initLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	// 3. Run the CLI
	err := cmd.Execute()

	// Ensure logs are flushed before exit
	logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initLogging initializes the logger based on configuration settings
func initLogging() error {
	logConfig := logger.LoggerConfig{
		Debug:     config.Instance.Debug,
		LogFormat: config.Instance.LogFormat,
		LogFile:   config.Instance.LogFile,
	}

	return logger.InitLogger(logConfig)
}
