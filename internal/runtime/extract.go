package runtime

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/ensemble/pkg/domain"
)

// agentReply is the decoded trailing JSON control block.
type agentReply struct {
	Content   string
	Decisions domain.Decisions
}

// extractControlBlock implements the "files first, JSON last" contract:
// it scans backward from the end of the raw text for the last syntactically
// balanced JSON object carrying both "content" and "decisions".
//
// The scan is brace-pair driven rather than a single parse because agents
// legitimately emit braces before the control block (code, diffs) and the
// occasional stray fence after it.
func extractControlBlock(raw string) (*agentReply, error) {
	for end := len(raw) - 1; end >= 0; end-- {
		if raw[end] != '}' {
			continue
		}
		for start := end - 1; start >= 0; start-- {
			if raw[start] != '{' {
				continue
			}
			candidate := raw[start : end+1]
			if !json.Valid([]byte(candidate)) {
				continue
			}
			var fields map[string]any
			if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
				continue
			}
			reply, ok := decodeReply(fields)
			if !ok {
				// A balanced object without the contract fields; keep
				// widening, an enclosing object may carry them.
				continue
			}
			return reply, nil
		}
	}
	return nil, fmt.Errorf("no trailing JSON control block with \"content\" and \"decisions\" found")
}

// decodeReply checks the contract shape: content must be a string,
// decisions a mapping. ok is false when the object is some other JSON.
func decodeReply(fields map[string]any) (*agentReply, bool) {
	if _, has := fields["content"]; !has {
		return nil, false
	}
	if _, has := fields["decisions"]; !has {
		return nil, false
	}

	var decoded struct {
		Content   string         `mapstructure:"content"`
		Decisions map[string]any `mapstructure:"decisions"`
	}
	if err := mapstructure.Decode(fields, &decoded); err != nil {
		return nil, false
	}

	decisions := make(domain.Decisions, len(decoded.Decisions))
	for k, v := range decoded.Decisions {
		decisions[k] = domain.FromAny(v)
	}
	return &agentReply{Content: decoded.Content, Decisions: decisions}, true
}
