// Package templates provides curated per-domain starting specifications.
// A template is immutable; generating from one always deep-copies the base
// and appends a fresh 8-character suffix to the slug so repeated
// instantiations never collide.
package templates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"agentforge/internal/spec"
)

// ErrUnknownTemplate reports a template slug outside the registry.
var ErrUnknownTemplate = errors.New("unknown template")

// ModelOverride partially overrides the base model configuration. Zero
// fields keep the template's values; Temperature is a pointer because 0 is
// a meaningful setting.
type ModelOverride struct {
	Provider    string
	ModelID     string
	MaxTokens   int
	Temperature *float64
}

// Customizations are the caller-adjustable knobs of a template. Nil or
// empty fields leave the base untouched.
type Customizations struct {
	Specialization   string
	Model            *ModelOverride
	ToolsConfig      []spec.ToolConfig
	KnowledgeSources []string
	SystemMessage    string
}

// Template is one domain starting point.
type Template struct {
	Name             string
	Slug             string
	Description      string
	Base             spec.Specification
	Tools            []string
	KnowledgeSources []string
	Examples         []spec.Example
}

// Generate produces a specification from the template. The base is deep
// copied, customizations applied by key and the slug made unique.
func (t *Template) Generate(c Customizations) spec.Specification {
	s := t.Base.Clone()

	if c.Specialization != "" {
		s.AgentConfig.Specialization = c.Specialization
		s.AgentConfig.Description = fmt.Sprintf("%s - %s", t.Description, c.Specialization)
	}
	if c.Model != nil {
		if c.Model.Provider != "" {
			s.ModelConfig.Provider = c.Model.Provider
		}
		if c.Model.ModelID != "" {
			s.ModelConfig.ModelID = c.Model.ModelID
		}
		if c.Model.MaxTokens != 0 {
			s.ModelConfig.MaxTokens = c.Model.MaxTokens
		}
		if c.Model.Temperature != nil {
			s.ModelConfig.Temperature = *c.Model.Temperature
		}
	}
	if c.ToolsConfig != nil {
		s.ToolsConfig = c.ToolsConfig
	}
	if c.KnowledgeSources != nil {
		s.KnowledgeBase.Sources = c.KnowledgeSources
	}
	if c.SystemMessage != "" {
		s.Instructions.SystemMessage = c.SystemMessage
	}

	s.AgentConfig.Slug = fmt.Sprintf("%s_%s", s.AgentConfig.Slug, uuid.NewString()[:8])
	return s
}

// Summary is the listing view of a template.
type Summary struct {
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	Tools            []string `json:"tools"`
	KnowledgeSources []string `json:"knowledge_sources"`
}

// Manager owns the template registry.
type Manager struct {
	templates map[string]*Template
	order     []string
}

// NewManager builds the manager with the built-in domain templates.
func NewManager() *Manager {
	m := &Manager{templates: make(map[string]*Template)}
	for _, t := range builtinTemplates() {
		m.templates[t.Slug] = t
		m.order = append(m.order, t.Slug)
	}
	return m
}

// Available lists all templates in registration order.
func (m *Manager) Available() []Summary {
	out := make([]Summary, 0, len(m.order))
	for _, slug := range m.order {
		t := m.templates[slug]
		out = append(out, Summary{
			Name:             t.Name,
			Slug:             t.Slug,
			Description:      t.Description,
			Tools:            t.Tools,
			KnowledgeSources: t.KnowledgeSources,
		})
	}
	return out
}

// Get returns the template for a slug.
func (m *Manager) Get(slug string) (*Template, error) {
	t, ok := m.templates[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, slug)
	}
	return t, nil
}

// CreateFromTemplate generates a specification from the named template.
func (m *Manager) CreateFromTemplate(slug string, c Customizations) (spec.Specification, error) {
	t, err := m.Get(slug)
	if err != nil {
		return spec.Specification{}, err
	}
	return t.Generate(c), nil
}

// recommendation keyword lists, checked in order with first match winning.
var recommendRules = []struct {
	slug     string
	keywords []string
}{
	{"finance", []string{"finance", "invest", "money", "stock", "market"}},
	{"marketing", []string{"marketing", "advertise", "promote", "brand"}},
	{"legal", []string{"legal", "law", "contract", "compliance"}},
	{"technology", []string{"tech", "software", "develop", "code", "program"}},
}

// Recommend picks a template slug for a free-text description, or reports
// that none fits.
func (m *Manager) Recommend(description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, rule := range recommendRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.slug, true
			}
		}
	}
	return "", false
}
