// Package classifier turns free-text agent requirements into a structured
// context analysis: detected domains, regional market and complexity level,
// each with a confidence score. Classification is deterministic pattern
// matching, not a trained model; identical input yields identical output.
package classifier

import (
	"sort"
	"strings"
)

// DetectedDomain is one domain hit with its detection confidence.
type DetectedDomain struct {
	Domain     string  `json:"domain"`
	Confidence float64 `json:"confidence"`
}

// MarketContext reports the first regional market whose patterns matched.
type MarketContext struct {
	Market     string  `json:"market"`
	Confidence float64 `json:"confidence"`
}

// ContextAnalysis is the classifier's read of one input text. It is derived
// purely from the input and recomputed every call, never cached.
type ContextAnalysis struct {
	DetectedDomains  []DetectedDomain   `json:"detected_domains"`
	MarketContext    *MarketContext     `json:"market_context"`
	ComplexityLevel  string             `json:"complexity_level"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

// Classifier evaluates free text against an immutable pattern registry.
type Classifier struct {
	registry *PatternRegistry
}

// New creates a classifier over the given registry; nil selects the default.
func New(registry *PatternRegistry) *Classifier {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Classifier{registry: registry}
}

// Classify analyzes the input text. Domains are evaluated independently and
// reported sorted by confidence descending (stable on ties) so the primary
// domain is deterministic. A domain is included only above the 0.3 threshold.
func (c *Classifier) Classify(input string) ContextAnalysis {
	analysis := ContextAnalysis{
		DetectedDomains:  []DetectedDomain{},
		ComplexityLevel:  ComplexityMedium,
		ConfidenceScores: make(map[string]float64),
	}

	lower := strings.ToLower(input)

	for _, dp := range c.registry.Domains {
		matches := 0
		for _, pattern := range dp.Patterns {
			if pattern.MatchString(lower) {
				matches++
			}
		}
		confidence := confidenceRatio(matches, len(dp.Patterns))
		analysis.ConfidenceScores[dp.Domain] = confidence
		if confidence > 0.3 {
			analysis.DetectedDomains = append(analysis.DetectedDomains, DetectedDomain{
				Domain:     dp.Domain,
				Confidence: confidence,
			})
		}
	}
	sort.SliceStable(analysis.DetectedDomains, func(i, j int) bool {
		return analysis.DetectedDomains[i].Confidence > analysis.DetectedDomains[j].Confidence
	})

	// First market with at least one match wins; no match means no market
	// context at all (the "global" fallback label belongs to presentation).
	for _, mp := range c.registry.Markets {
		matches := 0
		for _, pattern := range mp.Patterns {
			if pattern.MatchString(lower) {
				matches++
			}
		}
		if matches > 0 {
			analysis.MarketContext = &MarketContext{
				Market:     mp.Market,
				Confidence: confidenceRatio(matches, len(mp.Patterns)),
			}
			break
		}
	}

	for _, cp := range c.registry.Complexity {
		matched := false
		for _, pattern := range cp.Patterns {
			if pattern.MatchString(lower) {
				matched = true
				break
			}
		}
		if matched {
			analysis.ComplexityLevel = cp.Level
			break
		}
	}

	return analysis
}

// ExtractConcepts returns the registry concepts literally present in the
// input (case-insensitive substring), keyed by concept text, in registry
// order. This is a conservative literal check; false negatives are expected.
func (c *Classifier) ExtractConcepts(input string) []Concept {
	lower := strings.ToLower(input)
	var found []Concept
	for _, concept := range c.registry.Concepts {
		if strings.Contains(lower, strings.ToLower(concept.Text)) {
			found = append(found, concept)
		}
	}
	return found
}

func confidenceRatio(matches, total int) float64 {
	if total == 0 {
		return 0
	}
	ratio := float64(matches) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}
