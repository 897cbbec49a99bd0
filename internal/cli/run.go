// Package cli implements the command logic behind cmd/ensemble, kept out
// of the cobra wiring so it stays testable.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/aretw0/ensemble"
	"github.com/aretw0/ensemble/internal/logging"
	"github.com/aretw0/ensemble/internal/presentation/tui"
	"github.com/aretw0/ensemble/pkg/adapters/file"
	"github.com/aretw0/ensemble/pkg/domain"
)

// RunOptions configures one workflow run.
type RunOptions struct {
	WorkflowPath string
	Workspace    string
	Resume       string // session ID to resume instead of starting fresh
	Provider     string // agent proxy provider: anthropic or openai
	Model        string // provider model override
	StorePath    string // session store directory; empty uses the default
	TurnTimeout  time.Duration
	Verbose      bool
	JSONLogs     bool
}

// RunWorkflow loads the workflow, drives a session to completion and
// prints a run summary. Interactive niceties (banner, rendered markdown)
// only apply when stdout is a terminal.
func RunWorkflow(ctx context.Context, opts RunOptions) error {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		tui.PrintBanner()
	}

	logger := buildLogger(opts.Verbose, opts.JSONLogs)

	proxy, err := buildProxy(opts.Provider, opts.Model)
	if err != nil {
		return err
	}

	eng, err := ensemble.New(opts.WorkflowPath, proxy,
		ensemble.WithStore(file.New(opts.StorePath)),
		ensemble.WithLogger(logger),
		ensemble.WithLifecycleHooks(progressHooks(logger)),
		ensemble.WithTurnTimeout(opts.TurnTimeout),
	)
	if err != nil {
		return err
	}

	var session *domain.Session
	if opts.Resume != "" {
		session, err = eng.Resume(ctx, opts.Resume)
	} else {
		session = eng.NewSession(opts.Workspace)
		logger.Info("starting session", "session", session.ID)
		err = eng.Run(ctx, session)
	}

	if err != nil {
		if session == nil {
			return err
		}
		if errors.Is(err, context.Canceled) {
			fmt.Printf("\nRun paused. Resume with: ensemble run %s --resume %s\n",
				opts.WorkflowPath, session.ID)
			return nil
		}
		var rfe *domain.ResponseFormatError
		if errors.As(err, &rfe) {
			fmt.Printf("\nRun aborted: %v\nThe session is persisted for inspection: ensemble session inspect %s\n",
				rfe, session.ID)
			return err
		}
		return err
	}

	printSummary(session, interactive)
	return nil
}

func buildLogger(verbose, jsonLogs bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if jsonLogs {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

// progressHooks logs run progress.
func progressHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) {
			logger.Info("turn started", "turn", e.Turn, "state", e.State, "agent", e.Agent)
		},
		OnAgentReturn: func(_ context.Context, e *domain.AgentReturnEvent) {
			logger.Info("agent returned", "turn", e.Turn, "agent", e.Agent,
				"latency", e.Latency.Round(time.Millisecond), "failed", e.Failed)
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			logger.Debug("transition taken", "from", e.From, "to", e.To, "condition", e.Condition)
		},
	}
}

func printSummary(session *domain.Session, interactive bool) {
	md := summaryMarkdown(session)
	if interactive {
		render := tui.NewRenderer()
		if out, err := render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
