// Package spec defines the agent specification: the structured, user- or
// template-derived description of a desired agent prior to persistence.
// The JSON shape is the wire contract between the natural-language front end,
// the template manager and the validation/factory pipeline; field names and
// nesting must not change.
package spec

import (
	"encoding/json"
	"strings"
)

// Specification describes an agent to be provisioned.
type Specification struct {
	AgentConfig   AgentConfig   `json:"agent_config"`
	ModelConfig   ModelConfig   `json:"model_config"`
	ToolsConfig   []ToolConfig  `json:"tools_config"`
	Instructions  Instructions  `json:"instructions"`
	Features      Features      `json:"features"`
	KnowledgeBase KnowledgeBase `json:"knowledge_base"`
	Validation    Validation    `json:"validation"`
}

// AgentConfig holds the agent's identity fields.
type AgentConfig struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	Role           string `json:"role"`
	Specialization string `json:"specialization"`
}

// ModelConfig selects the language model backing the agent.
type ModelConfig struct {
	Provider    string  `json:"provider"`
	ModelID     string  `json:"model_id"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// ToolConfig enables one named tool with tool-specific options.
type ToolConfig struct {
	Name    string                 `json:"name"`
	Enabled bool                   `json:"enabled"`
	Config  map[string]interface{} `json:"config"`
}

// Instructions carries the system message plus supporting guidance.
type Instructions struct {
	SystemMessage string    `json:"system_message"`
	Guidelines    []string  `json:"guidelines"`
	Examples      []Example `json:"examples"`
}

// Example is a sample exchange illustrating expected agent behavior.
type Example struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Features are the boolean capability flags.
type Features struct {
	ReasoningEnabled bool `json:"reasoning_enabled"`
	MemoryEnabled    bool `json:"memory_enabled"`
	KnowledgeEnabled bool `json:"knowledge_enabled"`
	Markdown         bool `json:"markdown"`
}

// KnowledgeBase configures the agent's knowledge attachment.
type KnowledgeBase struct {
	Enabled bool     `json:"enabled"`
	Type    string   `json:"type"`
	Sources []string `json:"sources"`
}

// Validation holds test scenarios attached to the specification.
type Validation struct {
	TestScenarios []TestScenario `json:"test_scenarios"`
}

// TestScenario is one expected-behavior probe for the provisioned agent.
type TestScenario struct {
	Input            string `json:"input"`
	ExpectedBehavior string `json:"expected_behavior"`
}

// EnabledToolNames returns the names of all enabled tool entries, in order.
func (s *Specification) EnabledToolNames() []string {
	names := make([]string, 0, len(s.ToolsConfig))
	for _, tc := range s.ToolsConfig {
		if tc.Enabled {
			names = append(names, tc.Name)
		}
	}
	return names
}

// Serialized returns the lower-cased JSON rendering of the specification.
// Used for literal concept-containment checks during semantic validation.
func (s *Specification) Serialized() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(data))
}

// Clone returns a deep copy obtained through a JSON round trip.
func (s *Specification) Clone() Specification {
	data, _ := json.Marshal(s)
	var out Specification
	_ = json.Unmarshal(data, &out)
	return out
}

// Lookup resolves a dot path such as "agent_config.name" against the
// specification's wire representation. The second return reports whether the
// path resolved to a non-empty value; empty strings, empty collections and
// nulls count as missing.
func (s *Specification) Lookup(path string) (interface{}, bool) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, false
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false
	}

	var cur interface{} = tree
	for _, key := range strings.Split(path, ".") {
		node, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = node[key]
		if !ok {
			return nil, false
		}
	}

	switch v := cur.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case []interface{}:
		return v, len(v) > 0
	case map[string]interface{}:
		return v, len(v) > 0
	default:
		return v, true
	}
}
