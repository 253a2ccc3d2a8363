package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Searcher is the knowledge capability a Knowledge tool queries. The concrete
// implementation is the runtime knowledge handle attached at load time.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}

// Knowledge searches the agent's attached knowledge base. The searcher is
// bound at agent load time; until then the tool reports that no knowledge
// base is attached.
type Knowledge struct {
	searcher Searcher
}

// NewKnowledge creates an unbound knowledge search tool.
func NewKnowledge() *Knowledge {
	return &Knowledge{}
}

// Bind attaches the knowledge capability queried by Call.
func (k *Knowledge) Bind(s Searcher) {
	k.searcher = s
}

// Name implements tools.Tool.
func (k *Knowledge) Name() string {
	return "KnowledgeTools"
}

// Description implements tools.Tool.
func (k *Knowledge) Description() string {
	return "Searches the agent's knowledge base. Input is a free-text query; " +
		"returns a JSON array of matching passages."
}

// Call implements tools.Tool.
func (k *Knowledge) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("knowledge query is required")
	}
	if k.searcher == nil {
		return "", fmt.Errorf("no knowledge base attached to this agent")
	}

	results, err := k.searcher.Search(ctx, query, 5)
	if err != nil {
		return "", fmt.Errorf("searching knowledge base: %w", err)
	}

	out, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("encoding knowledge results: %w", err)
	}
	return string(out), nil
}
