package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensemble/internal/compiler"
	"github.com/aretw0/ensemble/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow.yaml>",
	Short: "Check a workflow definition for consistency",
	Long: `Loads the workflow and reports every violation at once: unknown agent
references, unreachable transition targets, invalid conditions and
templates, missing start states.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := compiler.LoadFile(args[0])
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("Workflow %q is invalid (%d violations):\n", verr.Workflow, len(verr.Violations))
				for _, v := range verr.Violations {
					fmt.Printf("  - %s\n", v)
				}
			} else {
				fmt.Printf("Validation failed: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Printf("Workflow %q is valid: %d agents, %d states, max %d turns ✅\n",
			def.Name, len(def.Agents), len(def.States), def.MaxTurns)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
