package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/ensemble/internal/compiler"
	"github.com/aretw0/ensemble/pkg/adapters/file"
	httpAdapter "github.com/aretw0/ensemble/pkg/adapters/http"
	"github.com/aretw0/ensemble/pkg/adapters/redis"
	"github.com/aretw0/ensemble/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve <workflow.yaml>",
	Short: "Start the HTTP inspection server",
	Long: `Serves a read-only JSON API over the workflow definition and session
store: GET /workflow, GET /sessions, GET /sessions/{id}, plus /healthz
and Prometheus metrics on /metrics.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

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

		registry := prometheus.NewRegistry()
		handler := httpAdapter.NewHandler(def, store, registry)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Ensemble server on %s\n", srv.Addr)
			fmt.Printf("Serving workflow: %s\n", def.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Ensemble server stopped gracefully")
		}
	},
}

// buildStore picks the session backend: Redis when --redis is set, the
// filesystem otherwise.
func buildStore(cmd *cobra.Command) (ports.SessionStore, error) {
	if redisAddr, _ := cmd.Flags().GetString("redis"); redisAddr != "" {
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		redisPassword := os.Getenv("ENSEMBLE_REDIS_PASSWORD")
		return redis.New(redisAddr, redisPassword, redisDB), nil
	}
	storePath, _ := cmd.Flags().GetString("store")
	return file.New(storePath), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the session store (e.g. localhost:6379)")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
}
