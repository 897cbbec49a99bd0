/*
Package ensemble is a multi-agent workflow execution engine. It drives a
set of AI coding agents through a declarative state machine: each state
names the agent that acts, the prompt it receives, and the conditions
that route control to the next state.

Workflows are YAML documents validated and compiled at load time.
Conditions use a small boolean expression language over the decisions
agents emit; prompts are templates with variable substitution and a
single-level conditional block. At runtime the engine renders the
current state's prompt, invokes the agent through a proxy, extracts the
trailing JSON control block from the raw response, merges its decisions
into the session, and follows the first matching transition.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/ensemble"
		"github.com/aretw0/ensemble/pkg/adapters/anthropic"
		"github.com/aretw0/ensemble/pkg/adapters/file"
	)

	func main() {
		eng, err := ensemble.New("pair-review.yaml", anthropic.New(),
			ensemble.WithStore(file.New("")),
		)
		if err != nil {
			log.Fatal(err)
		}

		session := eng.NewSession("./workspace")
		if err := eng.Run(context.Background(), session); err != nil {
			log.Fatal(err)
		}
		log.Printf("run finished: %s after %d turns", session.Status, session.TurnCount)
	}

Sessions are durable: with a store configured every turn is persisted,
so a canceled run can be resumed later and finished runs stay
inspectable through the CLI, the HTTP API or the MCP server.
*/
package ensemble
