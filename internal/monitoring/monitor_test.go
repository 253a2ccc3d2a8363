package monitoring

import (
	"testing"
)

func TestMonitor_Snapshot(t *testing.T) {
	m := NewMonitor()
	m.Record("agents_active", 3)

	snapshot := m.Snapshot()

	value, exists := snapshot["agents_active"]
	if !exists {
		t.Fatalf("Expected 'agents_active' to be present in snapshot, but it was not")
	}
	if value != 3 {
		t.Errorf("Expected 'agents_active' to be 3, but got %v", value)
	}

	if _, exists = snapshot["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in snapshot, but it was not")
	}
}

func TestMonitor_RecordAgentActivity(t *testing.T) {
	m := NewMonitor()

	m.RecordAgentActivity("agent-1", "chat", map[string]interface{}{
		"duration_ms": 123,
		"tokens":      456,
	})

	snapshot := m.Snapshot()

	value, exists := snapshot["agent-1_chat_duration_ms"]
	if !exists {
		t.Fatalf("Expected 'agent-1_chat_duration_ms' to be present, but it was not")
	}
	if value != 123 {
		t.Errorf("Expected 'agent-1_chat_duration_ms' to be 123, but got %v", value)
	}

	if _, exists = snapshot["agent-1_chat_recorded_at"]; !exists {
		t.Errorf("Expected 'agent-1_chat_recorded_at' to be present, but it was not")
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.Record("agents_active", 3)

	m.Reset()

	snapshot := m.Snapshot()
	if _, exists := snapshot["agents_active"]; exists {
		t.Errorf("Expected 'agents_active' to be removed after Reset(), but it was present")
	}
	if _, exists := snapshot["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present, but it was not")
	}
}

func TestMetricsCollectorHandler(t *testing.T) {
	mc := NewMetricsCollector()

	mc.RecordValidation("structural", true, 95)
	mc.RecordValidation("semantic", false, 8)
	mc.RecordAgentCreated()
	mc.RecordAgentLoad()
	mc.RecordRun("agent-1", "completed", 1.2)
	mc.StreamOpened()
	mc.StreamClosed()

	if mc.Handler() == nil {
		t.Fatal("Expected a scrape handler, got nil")
	}
}
