package spec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpecification() Specification {
	return Specification{
		AgentConfig: AgentConfig{
			Name:        "Finance Agent",
			Slug:        "finance_agent",
			Description: "Investment analysis assistant",
			Role:        "Financial advisor",
		},
		ModelConfig: ModelConfig{
			Provider:    "openai",
			ModelID:     "gpt-4o-mini",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		ToolsConfig: []ToolConfig{
			{Name: "DuckDuckGoTools", Enabled: true, Config: map[string]interface{}{}},
			{Name: "YFinanceTools", Enabled: false},
		},
		Instructions: Instructions{
			SystemMessage: "You are a financial advisor.",
			Guidelines:    []string{"Always assess risk profile first"},
		},
		KnowledgeBase: KnowledgeBase{
			Enabled: true,
			Type:    "url",
			Sources: []string{"https://www.investopedia.com"},
		},
	}
}

func TestWireShape(t *testing.T) {
	s := sampleSpecification()
	data, err := json.Marshal(&s)
	require.NoError(t, err)

	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &tree))

	// The nested JSON shape is a compatibility contract with existing
	// producers; these keys must not drift.
	for _, key := range []string{
		"agent_config", "model_config", "tools_config",
		"instructions", "features", "knowledge_base", "validation",
	} {
		assert.Contains(t, tree, key)
	}

	agentConfig := tree["agent_config"].(map[string]interface{})
	assert.Equal(t, "finance_agent", agentConfig["slug"])

	modelConfig := tree["model_config"].(map[string]interface{})
	assert.Equal(t, "gpt-4o-mini", modelConfig["model_id"])
}

func TestLookup(t *testing.T) {
	s := sampleSpecification()

	value, ok := s.Lookup("agent_config.name")
	assert.True(t, ok)
	assert.Equal(t, "Finance Agent", value)

	_, ok = s.Lookup("instructions.system_message")
	assert.True(t, ok)

	// Empty string resolves but counts as missing.
	s.AgentConfig.Role = ""
	_, ok = s.Lookup("agent_config.role")
	assert.False(t, ok)

	_, ok = s.Lookup("agent_config.nonexistent")
	assert.False(t, ok)

	_, ok = s.Lookup("nonexistent.path")
	assert.False(t, ok)
}

func TestEnabledToolNames(t *testing.T) {
	s := sampleSpecification()
	assert.Equal(t, []string{"DuckDuckGoTools"}, s.EnabledToolNames())
}

func TestCloneIsIndependent(t *testing.T) {
	s := sampleSpecification()
	c := s.Clone()

	c.AgentConfig.Slug = "mutated"
	c.ToolsConfig[0].Enabled = false
	c.KnowledgeBase.Sources[0] = "https://elsewhere.example"

	assert.Equal(t, "finance_agent", s.AgentConfig.Slug)
	assert.True(t, s.ToolsConfig[0].Enabled)
	assert.Equal(t, "https://www.investopedia.com", s.KnowledgeBase.Sources[0])
}

func TestSerializedIsLowercase(t *testing.T) {
	s := sampleSpecification()
	serialized := s.Serialized()
	assert.Contains(t, serialized, "finance agent")
	assert.NotContains(t, serialized, "Finance Agent")
}
