package validation

import (
	"sync"
	"time"

	"agentforge/internal/spec"
)

// historyCap bounds retained records; the oldest are dropped first.
const historyCap = 1000

// Record is one completed validation run.
type Record struct {
	Timestamp     time.Time          `json:"timestamp"`
	UserInput     string             `json:"user_input"`
	Specification spec.Specification `json:"specification"`
	Issues        []Issue            `json:"issues"`
	Score         float64            `json:"score"`
}

// History retains recent validation runs for inspection. Safe for
// concurrent use.
type History struct {
	mu      sync.Mutex
	records []Record
}

func NewHistory() *History {
	return &History{}
}

// Append stores a record, stamping it if the caller did not.
func (h *History) Append(r Record) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, r)
	if len(h.records) > historyCap {
		h.records = h.records[len(h.records)-historyCap:]
	}
}

// Len returns the number of retained records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// Recent returns up to n records, newest last.
func (h *History) Recent(n int) []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 || n > len(h.records) {
		n = len(h.records)
	}
	out := make([]Record, n)
	copy(out, h.records[len(h.records)-n:])
	return out
}
