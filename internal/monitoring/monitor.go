// Package monitoring tracks pipeline health: Prometheus collectors for
// scraping plus a lightweight snapshot monitor backing the health endpoint.
package monitoring

import (
	"sync"
	"time"
)

// Monitor keeps ad-hoc operational readings for the health endpoint.
type Monitor struct {
	mu        sync.RWMutex
	readings  map[string]interface{}
	startTime time.Time
}

// NewMonitor creates a monitor anchored at the current time.
func NewMonitor() *Monitor {
	return &Monitor{
		readings:  make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// Record stores one reading.
func (m *Monitor) Record(name string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings[name] = value
}

// Get returns a single reading.
func (m *Monitor) Get(name string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.readings[name]
	return value, exists
}

// Snapshot returns all readings plus the process uptime.
func (m *Monitor) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]interface{}, len(m.readings)+1)
	for k, v := range m.readings {
		out[k] = v
	}
	out["uptime_seconds"] = time.Since(m.startTime).Seconds()
	return out
}

// RecordAgentActivity stores per-agent readings under an activity prefix.
func (m *Monitor) RecordAgentActivity(agentID, activity string, readings map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := agentID + "_" + activity + "_"
	for k, v := range readings {
		m.readings[prefix+k] = v
	}
	m.readings[prefix+"recorded_at"] = time.Now().Format(time.RFC3339)
}

// Reset clears all readings.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = make(map[string]interface{})
}
