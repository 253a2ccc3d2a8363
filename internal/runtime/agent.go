// Package runtime hosts live agent instances: the model call loop plus the
// per-agent memory and knowledge attachments.
package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"
)

// historyRuns is how many prior exchanges are replayed into each request.
const historyRuns = 3

// Exchange is one prior input/output pair replayed as conversation history.
type Exchange struct {
	Input  string
	Output string
}

// RunResult is the outcome of one agent run.
type RunResult struct {
	Output     string
	DurationMs int64
	TokensUsed int
}

// Options configure a live agent instance.
type Options struct {
	ID            string
	Name          string
	Description   string
	SystemMessage string
	MaxTokens     int
	Temperature   float64
	Markdown      bool

	Model     llms.Model
	Tools     []tools.Tool
	Memory    *Memory
	Knowledge *Knowledge

	Logger *zap.Logger
}

// Agent is a live, provisioned agent bound to a model and its attachments.
type Agent struct {
	opts Options
}

// NewAgent assembles a live agent. The model is required.
func NewAgent(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, fmt.Errorf("agent %s: no model", opts.ID)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Agent{opts: opts}, nil
}

func (a *Agent) ID() string            { return a.opts.ID }
func (a *Agent) Name() string          { return a.opts.Name }
func (a *Agent) Memory() *Memory       { return a.opts.Memory }
func (a *Agent) Knowledge() *Knowledge { return a.opts.Knowledge }

// ToolNames lists the attached tools.
func (a *Agent) ToolNames() []string {
	names := make([]string, 0, len(a.opts.Tools))
	for _, t := range a.opts.Tools {
		names = append(names, t.Name())
	}
	return names
}

// Run sends one input through the model with history replay and returns the
// full response.
func (a *Agent) Run(ctx context.Context, input string, history []Exchange) (*RunResult, error) {
	return a.run(ctx, input, history, nil)
}

// RunStream behaves like Run but also forwards response chunks to the
// callback as they arrive.
func (a *Agent) RunStream(ctx context.Context, input string, history []Exchange, onChunk func(chunk string)) (*RunResult, error) {
	return a.run(ctx, input, history, onChunk)
}

func (a *Agent) run(ctx context.Context, input string, history []Exchange, onChunk func(string)) (*RunResult, error) {
	start := time.Now()

	messages := a.buildMessages(ctx, input, history)
	opts := []llms.CallOption{}
	if a.opts.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(a.opts.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(a.opts.Temperature))
	if onChunk != nil {
		opts = append(opts, llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			onChunk(string(chunk))
			return nil
		}))
	}

	response, err := a.opts.Model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.opts.ID, err)
	}
	if response == nil || len(response.Choices) == 0 {
		return nil, fmt.Errorf("agent %s: empty model response", a.opts.ID)
	}

	output := response.Choices[0].Content
	if a.opts.Memory != nil {
		if err := a.opts.Memory.Remember(ctx, "user", input); err != nil {
			a.opts.Logger.Warn("memory write failed", zap.String("agent_id", a.opts.ID), zap.Error(err))
		}
		if err := a.opts.Memory.Remember(ctx, "assistant", output); err != nil {
			a.opts.Logger.Warn("memory write failed", zap.String("agent_id", a.opts.ID), zap.Error(err))
		}
	}

	return &RunResult{
		Output:     output,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// buildMessages assembles the system message, recalled context, replayed
// history and the current input.
func (a *Agent) buildMessages(ctx context.Context, input string, history []Exchange) []llms.MessageContent {
	var system strings.Builder
	system.WriteString(a.opts.SystemMessage)
	if a.opts.Markdown {
		system.WriteString("\n\nFormat your responses in Markdown.")
	}
	system.WriteString("\n\nCurrent date and time: ")
	system.WriteString(time.Now().Format(time.RFC1123))

	if a.opts.Knowledge != nil && a.opts.Knowledge.Len() > 0 {
		if docs, err := a.opts.Knowledge.Search(ctx, input, 3); err == nil && len(docs) > 0 {
			system.WriteString("\n\nRelevant knowledge:\n")
			for _, doc := range docs {
				system.WriteString("- ")
				system.WriteString(doc)
				system.WriteString("\n")
			}
		}
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system.String()),
	}

	if len(history) > historyRuns {
		history = history[len(history)-historyRuns:]
	}
	for _, ex := range history {
		messages = append(messages,
			llms.TextParts(llms.ChatMessageTypeHuman, ex.Input),
			llms.TextParts(llms.ChatMessageTypeAI, ex.Output),
		)
	}

	return append(messages, llms.TextParts(llms.ChatMessageTypeHuman, input))
}
