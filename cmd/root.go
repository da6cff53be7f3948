package cmd

import (
	"fmt"

	"github.com/macflow/macflow/internal/config"
	"github.com/macflow/macflow/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base CLI command
var rootCmd = &cobra.Command{
	Use:   "macflow",
	Short: "A macOS automation CLI with a declarative workflow engine",
	Long: `macflow automates multi-step tasks on macOS through declarative
workflow files. A workflow is an ordered list of shell steps with variable
propagation, conditional execution, retries, timeouts, and dry-run simulation.

Workflow definitions are plain YAML, JSON, or property list files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// CLI flags can override config settings
		if cmd.Flags().Changed("debug") {
			debug, _ := cmd.Flags().GetBool("debug")
			config.Set("debug", debug)
		}
		if cmd.Flags().Changed("log-format") {
			logFormat, _ := cmd.Flags().GetString("log-format")
			config.Set("log_format", logFormat)
		}

		// If config file was explicitly specified via flag, reinitialize
		if cmd.Flags().Changed("config") && cfgFile != "" {
			// Only log an error, don't exit, as the config may still be usable
			if err := config.Initialize(cfgFile); err != nil {
				logger.LogError("Error loading config file", err, map[string]interface{}{
					"config_file": cfgFile,
				})
			}
		}

		// Rebuild the logger so flag overrides take effect
		if cmd.Flags().Changed("debug") || cmd.Flags().Changed("log-format") {
			_ = logger.InitLogger(logger.LoggerConfig{
				Debug:     config.Instance.Debug,
				LogFormat: config.Instance.LogFormat,
				LogFile:   config.Instance.LogFile,
			})
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is search in standard locations)")

	// Debug flag
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Log format flag
	rootCmd.PersistentFlags().String("log-format", "human", "Log format: json or human")

	// Bind flags to viper settings
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// Version is set at build time via -ldflags
var Version = "0.1.0"

// versionCmd shows the application version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("macflow v%s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
