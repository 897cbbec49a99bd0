package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensemble/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workflow.yaml>",
	Short: "Run a workflow to completion",
	Long: `Loads and validates the workflow definition, then drives a session
through it until the workflow terminates, the turn budget is exhausted,
or an agent response cannot be parsed. Ctrl+C pauses the run; it can be
resumed later with --resume.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath, _ := cmd.Flags().GetString("store")
		workspace, _ := cmd.Flags().GetString("workspace")
		resume, _ := cmd.Flags().GetString("resume")
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")
		timeout, _ := cmd.Flags().GetDuration("turn-timeout")
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json")

		// Ctrl+C cancels the context; the engine persists and pauses.
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		err := cli.RunWorkflow(ctx, cli.RunOptions{
			WorkflowPath: args[0],
			Workspace:    workspace,
			Resume:       resume,
			Provider:     provider,
			Model:        model,
			StorePath:    storePath,
			TurnTimeout:  timeout,
			Verbose:      verbose,
			JSONLogs:     jsonLogs,
		})
		if err != nil {
			cmd.SilenceUsage = true
			return fmt.Errorf("run failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("workspace", "w", ".", "Shared workspace directory passed to agents")
	runCmd.Flags().String("resume", "", "Resume the session with this ID instead of starting fresh")
	runCmd.Flags().String("provider", "anthropic", "Agent backend: anthropic or openai")
	runCmd.Flags().String("model", "", "Override the provider's default model")
	runCmd.Flags().Duration("turn-timeout", 10*time.Minute, "Maximum duration of one agent call (0 disables)")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	runCmd.Flags().Bool("json", false, "Emit logs as JSON")
}
