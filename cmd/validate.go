package cmd

import (
	"fmt"

	"github.com/macflow/macflow/internal/errors"
	"github.com/macflow/macflow/internal/jsonutil"
	"github.com/macflow/macflow/internal/logger"
	"github.com/macflow/macflow/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	validateJSON       bool
	validateErrorsOnly bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a workflow file without executing it",
	Long: `Loads a workflow definition and runs the static validation pass.
Errors block execution; warnings are advisory. The exit code is non-zero
when the file cannot be loaded or validation reports errors.`,
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

		result := workflow.Validate(wf)
		if validateErrorsOnly {
			result.Warnings = nil
		}

		if validateJSON {
			out, err := jsonutil.PrettyJSON(result)
			if err != nil {
				return err
			}
			fmt.Println(out)
		} else {
			for _, e := range result.Errors {
				logger.LogError("Validation error", fmt.Errorf("%s", e), map[string]interface{}{
					"file": path,
				})
			}
			for _, w := range result.Warnings {
				logger.LogWarn("Validation warning", map[string]interface{}{
					"file":    path,
					"warning": w,
				})
			}
			if result.Valid {
				logger.LogInfo("Workflow is valid", map[string]interface{}{
					"file":     path,
					"workflow": wf.Name,
					"warnings": len(result.Warnings),
				})
			}
		}

		if !result.Valid {
			return fmt.Errorf("%w: %s", errors.ErrWorkflowInvalid, path)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the validation result as JSON")
	validateCmd.Flags().BoolVar(&validateErrorsOnly, "errors-only", false, "Suppress warnings in the output")

	rootCmd.AddCommand(validateCmd)
}
