package validation

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"agentforge/internal/catalog"
	"agentforge/internal/classifier"
	"agentforge/internal/spec"
)

// genericSourcePatterns flag placeholder knowledge sources that a generated
// specification should never ship with.
var genericSourcePatterns = []*regexp.Regexp{
	regexp.MustCompile(`exemplo_url`),
	regexp.MustCompile(`placeholder`),
	regexp.MustCompile(`generic`),
	regexp.MustCompile(`template`),
	regexp.MustCompile(`url\d+`),
	regexp.MustCompile(`source\d+`),
	regexp.MustCompile(`example\d+`),
}

// ConfidenceMetrics summarize how certain the validator is about its report.
type ConfidenceMetrics struct {
	OverallConfidence   float64 `json:"overall_confidence"`
	CriticalIssuesCount int     `json:"critical_issues_count"`
	ValidationCoverage  float64 `json:"validation_coverage"`
}

// Report is the full outcome of a semantic validation run.
type Report struct {
	IsValid           bool                       `json:"is_valid"`
	Score             float64                    `json:"score"`
	Issues            []Issue                    `json:"issues"`
	Suggestions       []string                   `json:"suggestions"`
	ContextAnalysis   classifier.ContextAnalysis `json:"context_analysis"`
	ConfidenceMetrics ConfidenceMetrics          `json:"confidence_metrics"`
}

// IntelligentValidator scores a specification against the user's stated
// context. It owns no mutable classification state; the only mutation per
// run is the append to the injected history.
type IntelligentValidator struct {
	classifier *classifier.Classifier
	catalog    *catalog.Catalog
	history    *History
	logger     *zap.Logger
}

func NewIntelligentValidator(cls *classifier.Classifier, cat *catalog.Catalog, history *History, logger *zap.Logger) *IntelligentValidator {
	return &IntelligentValidator{
		classifier: cls,
		catalog:    cat,
		history:    history,
		logger:     logger,
	}
}

// Validate classifies the user input, collects issues across the tool,
// knowledge and context-preservation checks, scores the result and records
// the run in history. A score of 70 or above is valid.
func (v *IntelligentValidator) Validate(userInput string, s *spec.Specification) Report {
	context := v.classifier.Classify(userInput)

	var issues []Issue
	issues = append(issues, v.validateTools(s, context)...)
	issues = append(issues, v.validateKnowledgeBase(s, context)...)
	issues = append(issues, v.validateContextPreservation(userInput, s)...)

	score := scoreIssues(issues, context.ComplexityLevel)

	report := Report{
		IsValid:           score >= 70,
		Score:             score,
		Issues:            issues,
		Suggestions:       suggestionsFor(issues),
		ContextAnalysis:   context,
		ConfidenceMetrics: confidenceMetrics(issues),
	}

	if v.history != nil {
		v.history.Append(Record{
			UserInput:     userInput,
			Specification: s.Clone(),
			Issues:        issues,
			Score:         score,
		})
	}

	v.logger.Debug("semantic validation completed",
		zap.Float64("score", score),
		zap.Bool("is_valid", report.IsValid),
		zap.Int("issues", len(issues)))

	return report
}

func (v *IntelligentValidator) validateTools(s *spec.Specification, context classifier.ContextAnalysis) []Issue {
	var issues []Issue
	enabled := s.EnabledToolNames()
	enabledSet := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		enabledSet[name] = true
	}

	for _, name := range enabled {
		if !v.catalog.Has(name) {
			issues = append(issues, Issue{
				Severity:   SeverityCritical,
				Category:   CategoryToolValidation,
				Message:    fmt.Sprintf("Ferramenta inexistente: %s", name),
				Suggestion: fmt.Sprintf("Substituir %s por ferramenta disponível", name),
				Confidence: 1.0,
				Context:    map[string]interface{}{"tool_name": name},
			})
		}
	}

	for _, domain := range context.DetectedDomains {
		for _, tool := range v.catalog.DomainTools(domain.Domain) {
			if enabledSet[tool] {
				continue
			}
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryToolRecommendation,
				Message:    fmt.Sprintf("Ferramenta essencial ausente para %s: %s", domain.Domain, tool),
				Suggestion: fmt.Sprintf("Adicionar %s para melhor funcionalidade em %s", tool, domain.Domain),
				Confidence: domain.Confidence,
				Context:    map[string]interface{}{"domain": domain.Domain, "tool": tool},
			})
		}
	}

	if mc := context.MarketContext; mc != nil {
		for _, tool := range v.catalog.MismatchedTools(mc.Market) {
			if !enabledSet[tool] {
				continue
			}
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryMarketContext,
				Message:    fmt.Sprintf("Ferramenta inadequada para contexto %s: %s", mc.Market, tool),
				Suggestion: "Considerar ferramentas apropriadas para o mercado local",
				Confidence: mc.Confidence,
				Context:    map[string]interface{}{"market": mc.Market, "tool": tool},
			})
		}
	}

	return issues
}

func (v *IntelligentValidator) validateKnowledgeBase(s *spec.Specification, context classifier.ContextAnalysis) []Issue {
	var issues []Issue
	if !s.KnowledgeBase.Enabled {
		return issues
	}

	for _, source := range s.KnowledgeBase.Sources {
		lower := strings.ToLower(source)
		for _, pattern := range genericSourcePatterns {
			if pattern.MatchString(lower) {
				issues = append(issues, Issue{
					Severity:   SeverityCritical,
					Category:   CategoryKnowledgeQuality,
					Message:    fmt.Sprintf("Fonte genérica detectada: %s", source),
					Suggestion: "Substituir por fontes específicas e relevantes",
					Confidence: 0.9,
					Context:    map[string]interface{}{"source": source, "pattern": pattern.String()},
				})
				break
			}
		}
	}

	if mc := context.MarketContext; mc != nil {
		for _, source := range s.KnowledgeBase.Sources {
			if !v.catalog.SourceMismatched(mc.Market, source) {
				continue
			}
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryMarketContext,
				Message:    fmt.Sprintf("Fonte inadequada para contexto %s: %s", mc.Market, source),
				Suggestion: "Considerar fontes brasileiras como Infomoney, XP Research, B3",
				Confidence: mc.Confidence,
				Context:    map[string]interface{}{"market": mc.Market, "source": source},
			})
		}
	}

	return issues
}

func (v *IntelligentValidator) validateContextPreservation(userInput string, s *spec.Specification) []Issue {
	var issues []Issue
	serialized := s.Serialized()

	for _, concept := range v.classifier.ExtractConcepts(userInput) {
		if strings.Contains(serialized, strings.ToLower(concept.Text)) {
			continue
		}
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Category:   CategoryContextPreservation,
			Message:    fmt.Sprintf("Conceito importante não refletido: %s", concept.Text),
			Suggestion: fmt.Sprintf("Incluir '%s' na especificação", concept.Text),
			Confidence: concept.Importance,
			Context:    map[string]interface{}{"concept": concept.Text, "importance": concept.Importance},
		})
	}

	return issues
}

func scoreIssues(issues []Issue, complexity string) float64 {
	score := 100.0
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			score -= 20 * issue.Confidence
		case SeverityWarning:
			score -= 10 * issue.Confidence
		case SeverityInfo:
			score -= 5 * issue.Confidence
		}
	}

	switch complexity {
	case classifier.ComplexityComplex:
		score += 5
	case classifier.ComplexitySimple:
		score -= 5
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// suggestionsFor emits one suggestion per issue category, in first-seen
// order.
func suggestionsFor(issues []Issue) []string {
	texts := map[string]string{
		CategoryToolValidation:      "Ferramentas: substituir ferramentas inexistentes por opções disponíveis",
		CategoryToolRecommendation:  "Funcionalidade: adicionar ferramentas essenciais para melhor performance",
		CategoryMarketContext:       "Contexto: adaptar ferramentas e fontes para o mercado local",
		CategoryKnowledgeQuality:    "Conhecimento: usar fontes específicas e relevantes",
		CategoryContextPreservation: "Contexto: incorporar todos os requisitos do usuário na especificação",
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, issue := range issues {
		if seen[issue.Category] {
			continue
		}
		seen[issue.Category] = true
		if text, ok := texts[issue.Category]; ok {
			suggestions = append(suggestions, text)
		}
	}
	return suggestions
}

func confidenceMetrics(issues []Issue) ConfidenceMetrics {
	if len(issues) == 0 {
		return ConfidenceMetrics{OverallConfidence: 1.0}
	}

	sum := 0.0
	critical := 0
	for _, issue := range issues {
		sum += issue.Confidence
		if issue.Severity == SeverityCritical {
			critical++
		}
	}

	coverage := float64(len(issues)) / 10
	if coverage > 1 {
		coverage = 1
	}

	return ConfidenceMetrics{
		OverallConfidence:   sum / float64(len(issues)),
		CriticalIssuesCount: critical,
		ValidationCoverage:  coverage,
	}
}
