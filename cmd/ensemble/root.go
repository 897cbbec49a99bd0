package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ensemble",
	Short: "Ensemble is a multi-agent workflow execution engine",
	Long: `Ensemble drives AI coding agents through a declarative state machine:
each state names the agent that acts, the prompt it receives, and the
conditions that route control to the next state.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("store", "", "Session store directory (default .ensemble/sessions)")
}
