package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensemble/internal/compiler"
	"github.com/aretw0/ensemble/internal/presentation/graph"
	"github.com/aretw0/ensemble/pkg/adapters/file"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <workflow.yaml>",
	Short: "Export the workflow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the workflow's states and
transitions. With --session, the diagram is overlaid with that session's
visited and current states.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := compiler.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			storePath, _ := cmd.Flags().GetString("store")
			session, err := file.New(storePath).Load(cmd.Context(), sessionID)
			if err != nil {
				fmt.Printf("Error loading session %q: %v\n", sessionID, err)
				os.Exit(1)
			}
			overlay = graph.FromSession(session)
		}

		fmt.Print(graph.GenerateMermaid(def, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Overlay a session's progress on the graph")
}
