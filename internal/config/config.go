package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/macflow/macflow/internal/fsutil"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name used for config files and directories
	AppName = "macflow"

	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "MACFLOW"
)

// AppConfig holds the application configuration
type AppConfig struct {
	// Core settings
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	// Workflow engine settings
	Workflows struct {
		// Dir is the default directory scanned by `list` and written by `new`
		Dir string `mapstructure:"dir"`

		// Shell is the interpreter used to run step commands
		Shell string `mapstructure:"shell"`
	} `mapstructure:"workflows"`
}

// Global variables
var (
	// Global configuration instance
	Instance AppConfig

	// Status indicators
	ConfigLoaded bool
	ConfigFile   string

	// Viper instance
	v *viper.Viper

	// Ensure thread safety
	initOnce sync.Once
)

// Initialize sets up the configuration system
func Initialize(cfgFile string) error {
	var err error

	initOnce.Do(func() {
		// Create a new viper instance
		v = viper.New()

		// Set default values
		setDefaults(v)

		// Load configuration from file if specified
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
		} else {
			// Set config name and type
			v.SetConfigName(AppName)
			v.SetConfigType("yaml")

			// Add default search paths
			addSearchPaths(v)
		}

		// Set up environment variables
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()

		// Read configuration file
		if readErr := v.ReadInConfig(); readErr != nil {
			if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
				// Only capture error if the config file was found but couldn't be read
				err = fmt.Errorf("error reading config file: %w", readErr)
			}
			// Config file not found, using defaults and environment variables
			ConfigLoaded = false
			ConfigFile = ""
		} else {
			ConfigLoaded = true
			ConfigFile = v.ConfigFileUsed()
		}

		// Unmarshal config into struct
		if unmarshalErr := v.Unmarshal(&Instance); unmarshalErr != nil {
			err = fmt.Errorf("error parsing config: %w", unmarshalErr)
			return
		}
	})

	return err
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core settings
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "human")
	v.SetDefault("log_file", "")

	// Workflow defaults
	dataDir, err := fsutil.GetDataDir(AppName)
	if err == nil {
		v.SetDefault("workflows.dir", filepath.Join(dataDir, "workflows"))
	} else {
		v.SetDefault("workflows.dir", "workflows")
	}
	v.SetDefault("workflows.shell", "/bin/sh")
}

// addSearchPaths adds config search paths
func addSearchPaths(v *viper.Viper) {
	// Always check current directory first
	v.AddConfigPath(".")

	// Add user config directory
	configDir, err := fsutil.GetConfigDir(AppName)
	if err == nil {
		v.AddConfigPath(configDir)
	}

	// Add system-wide config directory
	v.AddConfigPath("/etc/" + AppName)
}

// Set updates a configuration value at runtime (used by CLI flag overrides)
func Set(key string, value interface{}) {
	if v == nil {
		return
	}
	v.Set(key, value)
	_ = v.Unmarshal(&Instance)
}

// WorkflowsDir returns the configured workflows directory, falling back to the
// current directory when unset.
func WorkflowsDir() string {
	if Instance.Workflows.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return cwd
	}
	return Instance.Workflows.Dir
}
