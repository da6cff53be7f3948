package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/macflow/macflow/internal/config"
	"github.com/macflow/macflow/internal/errors"
	"github.com/macflow/macflow/internal/fsutil"
	"github.com/macflow/macflow/internal/logger"
	"github.com/macflow/macflow/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	newDir         string
	newDescription string
	newForce       bool
	newStdout      bool
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a workflow definition file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		content, err := workflow.Scaffold(name, newDescription)
		if err != nil {
			return err
		}

		if newStdout {
			fmt.Print(string(content))
			return nil
		}

		dir := newDir
		if dir == "" {
			dir = config.WorkflowsDir()
		}

		slug := workflow.Slug(name)
		if slug == "" {
			return fmt.Errorf("%w: workflow name %q yields an empty file name", errors.ErrInvalidArgument, name)
		}
		path := filepath.Join(dir, slug+".yaml")

		if fsutil.FileExists(path) && !newForce {
			return fmt.Errorf("%w: %s (use --force to overwrite)", errors.ErrFileExists, path)
		}

		if err := fsutil.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
		}

		logger.LogInfo("Workflow scaffold written", map[string]interface{}{
			"file":     path,
			"workflow": name,
		})
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newDir, "dir", "", "Directory for the new file (default is workflows.dir from config)")
	newCmd.Flags().StringVar(&newDescription, "description", "", "Workflow description")
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite an existing file")
	newCmd.Flags().BoolVar(&newStdout, "stdout", false, "Print the scaffold instead of writing a file")

	rootCmd.AddCommand(newCmd)
}
