// Package catalog is the closed registry of known tool identifiers. Every
// tool name maps to a concrete resolver at construction time; unknown names
// are a typed lookup failure, never a dynamic import.
package catalog

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/tools/duckduckgo"

	agenttools "agentforge/internal/tools"
)

// ErrUnknownTool reports a tool identifier outside the registry.
var ErrUnknownTool = errors.New("unknown tool")

// Resolver constructs a tool implementation from its per-agent config block.
type Resolver func(config map[string]interface{}) (tools.Tool, error)

// Descriptor is one registered tool.
type Descriptor struct {
	Name     string
	Category string
	Resolver Resolver
}

// Catalog holds the tool registry plus the domain-affinity and
// region-mismatch tables consulted during semantic validation.
type Catalog struct {
	descriptors map[string]Descriptor
	order       []string

	// domainTools maps a detected domain to the tools an agent in that
	// domain is expected to carry.
	domainTools map[string][]string

	// Narrow denylists keyed by market. A small check, not an exhaustive
	// region model.
	mismatchedTools   map[string][]string
	mismatchedSources map[string][]*regexp.Regexp
}

// Default builds the catalog with all built-in tools registered.
func Default() *Catalog {
	c := &Catalog{
		descriptors: make(map[string]Descriptor),
		domainTools: map[string][]string{
			"finance":    {"YFinanceTools", "CalculatorTools", "ChartTools"},
			"marketing":  {"DuckDuckGoTools", "ChartTools"},
			"legal":      {"DuckDuckGoTools"},
			"technology": {"DuckDuckGoTools", "ReasoningTools"},
		},
		mismatchedTools: map[string][]string{
			"brazilian": {"MintAPI", "PlaidAPI"},
		},
		mismatchedSources: map[string][]*regexp.Regexp{
			"brazilian": compilePatterns(
				`morningstar\.com`,
				`yahoo\.com`,
				`bloomberg\.com`,
				`marketwatch\.com`,
				`cnbc\.com`,
			),
		},
	}

	c.register(Descriptor{
		Name:     "DuckDuckGoTools",
		Category: "search",
		Resolver: func(config map[string]interface{}) (tools.Tool, error) {
			maxResults := intOption(config, "max_results", 5)
			return duckduckgo.New(maxResults, "agentforge/1.0")
		},
	})
	c.register(Descriptor{
		Name:     "YFinanceTools",
		Category: "finance",
		Resolver: func(map[string]interface{}) (tools.Tool, error) {
			return agenttools.NewYFinance(), nil
		},
	})
	c.register(Descriptor{
		Name:     "CalculatorTools",
		Category: "finance",
		Resolver: func(map[string]interface{}) (tools.Tool, error) {
			return agenttools.NewCalculator(), nil
		},
	})
	c.register(Descriptor{
		Name:     "ChartTools",
		Category: "visualization",
		Resolver: func(map[string]interface{}) (tools.Tool, error) {
			return agenttools.NewChart(), nil
		},
	})
	c.register(Descriptor{
		Name:     "ReasoningTools",
		Category: "reasoning",
		Resolver: func(map[string]interface{}) (tools.Tool, error) {
			return agenttools.NewReasoning(), nil
		},
	})
	c.register(Descriptor{
		Name:     "KnowledgeTools",
		Category: "knowledge",
		Resolver: func(map[string]interface{}) (tools.Tool, error) {
			return agenttools.NewKnowledge(), nil
		},
	})

	return c
}

func (c *Catalog) register(d Descriptor) {
	c.descriptors[d.Name] = d
	c.order = append(c.order, d.Name)
}

// Has reports whether the identifier names a registered tool.
func (c *Catalog) Has(name string) bool {
	_, ok := c.descriptors[name]
	return ok
}

// Names returns the registered identifiers in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Resolve constructs the implementation behind an identifier.
func (c *Catalog) Resolve(name string, config map[string]interface{}) (tools.Tool, error) {
	d, ok := c.descriptors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	tool, err := d.Resolver(config)
	if err != nil {
		return nil, fmt.Errorf("constructing tool %s: %w", name, err)
	}
	return tool, nil
}

// DomainTools returns the expected tool set for a domain, or nil.
func (c *Catalog) DomainTools(domain string) []string {
	return c.domainTools[domain]
}

// Domains lists the domains with tool affinities, in a fixed order.
func (c *Catalog) Domains() []string {
	return []string{"finance", "marketing", "legal", "technology"}
}

// MismatchedTools returns tool names known to be inappropriate for a market.
func (c *Catalog) MismatchedTools(market string) []string {
	return c.mismatchedTools[market]
}

// SourceMismatched reports whether a knowledge source is known to be
// inappropriate for the market.
func (c *Catalog) SourceMismatched(market, source string) bool {
	for _, pattern := range c.mismatchedSources[market] {
		if pattern.MatchString(source) {
			return true
		}
	}
	return false
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+expr))
	}
	return out
}

func intOption(config map[string]interface{}, key string, fallback int) int {
	if config == nil {
		return fallback
	}
	switch v := config[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
