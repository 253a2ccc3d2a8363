package runtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Knowledge is an agent's searchable knowledge attachment, backed by the
// same deterministic embedding scheme as Memory. Documents are indexed once
// at load time. Satisfies the Searcher contract of the knowledge tool.
type Knowledge struct {
	name string

	mu         sync.RWMutex
	documents  []string
	embeddings [][]float32
}

// NewKnowledge builds an index named after its backing descriptor,
// conventionally "kb_<slug>".
func NewKnowledge(name string) *Knowledge {
	return &Knowledge{name: name}
}

// Name returns the index name.
func (k *Knowledge) Name() string {
	return k.name
}

// Index adds documents to the index.
func (k *Knowledge) Index(docs ...string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, doc := range docs {
		k.documents = append(k.documents, doc)
		k.embeddings = append(k.embeddings, embed(doc))
	}
}

// Len returns the number of indexed documents.
func (k *Knowledge) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.documents)
}

// Search returns up to n documents ranked by similarity to the query.
func (k *Knowledge) Search(_ context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid result count %d", n)
	}
	queryEmbedding := embed(query)

	k.mu.RLock()
	defer k.mu.RUnlock()

	type scored struct {
		index int
		score float32
	}
	ranked := make([]scored, len(k.documents))
	for i := range k.documents {
		ranked[i] = scored{i, cosineSimilarity(queryEmbedding, k.embeddings[i])}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, k.documents[r.index])
	}
	return out, nil
}
