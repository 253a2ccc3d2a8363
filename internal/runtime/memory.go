package runtime

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

const embeddingDim = 100

// Entry is one remembered exchange fragment.
type Entry struct {
	Timestamp time.Time
	Role      string
	Content   string
}

// Memory is an agent's long-term recall store. Each agent gets its own
// namespace so memories never leak across agents. Embeddings are
// deterministic word hashes, not a trained model; recall quality is
// keyword-level by construction.
type Memory struct {
	namespace string

	mu         sync.RWMutex
	embeddings map[string][]float32
	entries    map[string]Entry
}

// NewMemory creates an empty memory under the given namespace, conventionally
// "agent_<id>_memories".
func NewMemory(namespace string) *Memory {
	return &Memory{
		namespace:  namespace,
		embeddings: make(map[string][]float32),
		entries:    make(map[string]Entry),
	}
}

// Namespace returns the memory's isolation key.
func (m *Memory) Namespace() string {
	return m.namespace
}

// Remember stores one fragment.
func (m *Memory) Remember(_ context.Context, role, content string) error {
	entry := Entry{Timestamp: time.Now(), Role: role, Content: content}
	key := fmt.Sprintf("%s-%s-%d", m.namespace, role, entry.Timestamp.UnixNano())

	embedding := embed(content)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeddings[key] = embedding
	m.entries[key] = entry
	return nil
}

// Recall returns up to k stored fragments most similar to the query, best
// first.
func (m *Memory) Recall(_ context.Context, query string, k int) ([]Entry, error) {
	queryEmbedding := embed(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		key   string
		score float32
	}
	ranked := make([]scored, 0, len(m.embeddings))
	for key, embedding := range m.embeddings {
		ranked = append(ranked, scored{key, cosineSimilarity(queryEmbedding, embedding)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]Entry, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, m.entries[r.key])
	}
	return out, nil
}

// Len returns the number of stored fragments.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// embed produces a deterministic pseudo-embedding: each word seeds a PRNG
// whose draws are summed into the vector, then normalized. Identical text
// always embeds identically.
func embed(text string) []float32 {
	embedding := make([]float32, embeddingDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		rng := rand.New(rand.NewSource(int64(h.Sum32())))
		for i := range embedding {
			embedding[i] += rng.Float32()*2 - 1
		}
	}
	normalize(embedding)
	return embedding
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / float32(math.Sqrt(float64(normA)*float64(normB)))
}

func normalize(v []float32) {
	var norm float32
	for _, x := range v {
		norm += x * x
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
