package cmd

import (
	"fmt"
	"strings"

	"github.com/macflow/macflow/internal/config"
	"github.com/macflow/macflow/internal/jsonutil"
	"github.com/macflow/macflow/internal/logger"
	"github.com/macflow/macflow/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	listDir     string
	listJSON    bool
	listVerbose bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflow files in a directory",
	Long: `Scans a directory for workflow definition files and reports their
metadata (name, step count, triggers) without executing anything. Files that
fail to parse are reported individually and do not abort the listing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := listDir
		if dir == "" {
			dir = config.WorkflowsDir()
		}

		entries, err := workflow.Discover(dir)
		if err != nil {
			logger.LogError("Failed to list workflows", err, map[string]interface{}{
				"dir": dir,
			})
			return err
		}

		if listJSON {
			out, err := jsonutil.PrettyJSON(entries)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		if len(entries) == 0 {
			fmt.Printf("No workflow files found in %s\n", dir)
			return nil
		}

		for _, entry := range entries {
			if entry.Error != "" {
				fmt.Printf("%-30s  [unparseable: %s]\n", entry.Path, entry.Error)
				continue
			}
			fmt.Printf("%-30s  %s (%d steps)\n", entry.Path, entry.Name, entry.StepCount)
			if listVerbose {
				if entry.Description != "" {
					fmt.Printf("    %s\n", entry.Description)
				}
				if len(entry.Triggers) > 0 {
					fmt.Printf("    triggers: %s\n", strings.Join(entry.Triggers, ", "))
				}
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDir, "dir", "", "Directory to scan (default is workflows.dir from config)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the listing as JSON")
	listCmd.Flags().BoolVar(&listVerbose, "verbose", false, "Show descriptions and triggers")

	rootCmd.AddCommand(listCmd)
}
