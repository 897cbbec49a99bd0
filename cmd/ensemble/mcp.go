package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensemble/internal/compiler"
	"github.com/aretw0/ensemble/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp <workflow.yaml>",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the workflow definition and session store as an MCP server, so
AI agents (like Claude Desktop) can inspect workflows and sessions as
tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		def, err := compiler.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}

		store, err := buildStore(cmd)
		if err != nil {
			fmt.Printf("Error configuring store: %v\n", err)
			os.Exit(1)
		}

		server := mcp.NewServer(def, store)

		switch transport {
		case "stdio":
			if err := server.ServeStdio(); err != nil {
				fmt.Printf("MCP server error: %v\n", err)
				os.Exit(1)
			}
		case "sse":
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := server.ServeSSE(ctx, port); err != nil {
				fmt.Printf("MCP server error: %v\n", err)
				os.Exit(1)
			}
		default:
			fmt.Printf("Unknown transport %q (expected stdio or sse)\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8090, "Port for the SSE transport")
	mcpCmd.Flags().String("redis", "", "Redis address for the session store")
	mcpCmd.Flags().Int("redis-db", 0, "Redis database number")
}
