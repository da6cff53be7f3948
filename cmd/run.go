package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/macflow/macflow/internal/config"
	"github.com/macflow/macflow/internal/jsonutil"
	"github.com/macflow/macflow/internal/logger"
	"github.com/macflow/macflow/internal/shell"
	"github.com/macflow/macflow/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	runDryRun  bool
	runVerbose bool
	runJSON    bool
	runWorkdir string
)

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Validate and execute a workflow file",
	Long: `Loads a workflow definition, validates it, and executes its steps in
order. The exit code is non-zero when validation fails or any step failed.

With --dry-run, steps are simulated: guards are still evaluated but no
external command is invoked and no output variables are captured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		wf, err := workflow.Load(path)
		if err != nil {
			logger.LogError("Failed to load workflow", err, map[string]interface{}{
				"file": path,
			})
			return err
		}

		// Interrupts kill the in-flight step command and abort the run
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := workflow.NewRunner(shell.New(config.Instance.Workflows.Shell, runWorkdir))
		result, err := runner.Run(ctx, wf, workflow.RunOptions{
			DryRun:  runDryRun,
			Verbose: runVerbose,
		})
		if err != nil {
			logger.LogError("Workflow did not run", err, map[string]interface{}{
				"file": path,
			})
			return err
		}

		if runJSON {
			out, err := jsonutil.PrettyJSON(result)
			if err != nil {
				return err
			}
			fmt.Println(out)
		} else {
			summary := result.Summarize()
			logger.LogInfo("Workflow result", map[string]interface{}{
				"workflow":  result.Workflow,
				"success":   result.Success,
				"steps":     summary.Total,
				"succeeded": summary.Succeeded,
				"failed":    summary.Failed,
				"skipped":   summary.Skipped,
			})
		}

		if !result.Success {
			return fmt.Errorf("workflow %q failed", wf.Name)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Simulate execution without invoking commands")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Log expanded commands and scope state")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the workflow result as JSON")
	runCmd.Flags().StringVar(&runWorkdir, "workdir", "", "Working directory for step commands")

	rootCmd.AddCommand(runCmd)
}
