// Package validation implements the two-stage specification checks: a
// structural gate on required fields and a semantic pass that scores the
// specification against the user's stated context.
package validation

// Severity of a validation issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue categories. Suggestions are generated one per category present.
const (
	CategoryToolValidation      = "tool_validation"
	CategoryToolRecommendation  = "tool_recommendation"
	CategoryMarketContext       = "market_context"
	CategoryKnowledgeQuality    = "knowledge_quality"
	CategoryContextPreservation = "context_preservation"
)

// Issue is one finding of the semantic validator. Confidence weights the
// issue's score penalty, so a tentative finding costs less than a certain
// one.
type Issue struct {
	Severity   Severity               `json:"level"`
	Category   string                 `json:"category"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion"`
	Confidence float64                `json:"confidence"`
	Context    map[string]interface{} `json:"context,omitempty"`
}
