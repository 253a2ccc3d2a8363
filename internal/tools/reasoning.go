package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Reasoning is a structured scratchpad the model can write intermediate
// think/analyze steps to. Steps are kept per call chain so the model can
// review its own chain before answering.
type Reasoning struct {
	mu    sync.Mutex
	steps []reasoningStep
}

type reasoningStep struct {
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReasoning creates the reasoning scratchpad tool.
func NewReasoning() *Reasoning {
	return &Reasoning{}
}

// Name implements tools.Tool.
func (r *Reasoning) Name() string {
	return "ReasoningTools"
}

// Description implements tools.Tool.
func (r *Reasoning) Description() string {
	return `Reasoning scratchpad. Input is a JSON object {"action": "think"|"analyze"|"review", "content": "..."}.
"think" and "analyze" record a reasoning step; "review" returns all recorded steps.`
}

type reasoningRequest struct {
	Action  string `json:"action"`
	Content string `json:"content"`
}

// Call implements tools.Tool.
func (r *Reasoning) Call(_ context.Context, input string) (string, error) {
	var req reasoningRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		// Free-text input is treated as a plain "think" step.
		req = reasoningRequest{Action: "think", Content: strings.TrimSpace(input)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch req.Action {
	case "think", "analyze":
		r.steps = append(r.steps, reasoningStep{
			Kind:      req.Action,
			Content:   req.Content,
			Timestamp: time.Now().UTC(),
		})
		return fmt.Sprintf(`{"recorded": true, "steps": %d}`, len(r.steps)), nil
	case "review":
		out, err := json.Marshal(r.steps)
		if err != nil {
			return "", fmt.Errorf("encoding reasoning steps: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown reasoning action %q", req.Action)
	}
}
