package logger

import (
	"fmt"
	"path/filepath"

	"github.com/macflow/macflow/internal/fsutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var Logger *zap.SugaredLogger

// LoggerConfig contains configuration for the logger
type LoggerConfig struct {
	Debug     bool   // Enable debug level logging
	LogFormat string // "json" or "human"
	LogFile   string // Path to log file (optional)
}

// DefaultConfig returns a default configuration
func DefaultConfig() LoggerConfig {
	return LoggerConfig{
		Debug:     false,
		LogFormat: "human",
	}
}

// InitLogger initializes the logger with the provided configuration
func InitLogger(config LoggerConfig) error {
	var zapConfig zap.Config

	// Configure log format
	if config.LogFormat == "json" {
		zapConfig = zap.NewProductionConfig() // JSON logs for structured logging
	} else {
		zapConfig = zap.NewDevelopmentConfig()                                 // Human-readable logs with color
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // Enables colored log levels
	}

	// Configure output paths
	outputPaths := []string{"stderr"}
	if config.LogFile != "" {
		// Ensure log directory exists
		logDir := filepath.Dir(config.LogFile)
		if err := fsutil.CreateDirIfNotExists(logDir); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		outputPaths = append(outputPaths, config.LogFile)
	}
	zapConfig.OutputPaths = outputPaths

	// Set log level dynamically
	if config.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// Build logger
	logger, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Assign global logger instance
	Logger = logger.Sugar()
	return nil
}

// Log functions
func LogInfo(message string, fields map[string]interface{}) {
	if Logger == nil {
		return
	}
	Logger.Infow(message, flattenFields(fields)...)
}

func LogWarn(message string, fields map[string]interface{}) {
	if Logger == nil {
		return
	}
	Logger.Warnw(message, flattenFields(fields)...)
}

func LogError(message string, err error, fields map[string]interface{}) {
	if Logger == nil {
		return
	}
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	Logger.Errorw(message, flattenFields(fields)...)
}

func LogDebug(message string, fields map[string]interface{}) {
	if Logger == nil {
		return
	}
	Logger.Debugw(message, flattenFields(fields)...)
}

// WithFields returns a logger with multiple fields added to every log
func WithFields(fields map[string]interface{}) *zap.SugaredLogger {
	return Logger.With(flattenFields(fields)...)
}

// Helper function to format key-value pairs for logging
func flattenFields(fields map[string]interface{}) []interface{} {
	var flat []interface{}
	for k, v := range fields {
		flat = append(flat, k, v)
	}
	return flat
}

// Sync flushes any buffered log entries
func Sync() error {
	if Logger == nil {
		return nil
	}
	return Logger.Sync()
}
