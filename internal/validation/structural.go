package validation

import (
	"fmt"

	"agentforge/internal/catalog"
	"agentforge/internal/spec"
)

// requiredPaths are the fields a specification cannot be provisioned
// without. Empty strings and empty collections count as absent.
var requiredPaths = []string{
	"agent_config.name",
	"agent_config.slug",
	"agent_config.description",
	"model_config.model_id",
	"instructions.system_message",
}

// StructuralResult is the outcome of the structural gate.
type StructuralResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Score    int      `json:"score"`
}

// StructuralValidator checks that a specification is complete enough to
// provision. It is a gate, not a quality judgement: any missing required
// field makes the result invalid regardless of score.
type StructuralValidator struct {
	catalog *catalog.Catalog
}

func NewStructuralValidator(c *catalog.Catalog) *StructuralValidator {
	return &StructuralValidator{catalog: c}
}

// Validate runs the structural checks and computes the quality score.
func (v *StructuralValidator) Validate(s *spec.Specification) StructuralResult {
	var errors, warnings []string

	for _, path := range requiredPaths {
		if _, ok := s.Lookup(path); !ok {
			errors = append(errors, fmt.Sprintf("Campo obrigatório ausente: %s", path))
		}
	}

	for _, tool := range s.ToolsConfig {
		if !v.catalog.Has(tool.Name) {
			warnings = append(warnings, fmt.Sprintf("Tool não reconhecida: %s", tool.Name))
		}
	}

	if s.ModelConfig.Temperature > 1.0 {
		warnings = append(warnings, "Temperature alta pode gerar respostas inconsistentes")
	}

	return StructuralResult{
		IsValid:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
		Score:    qualityScore(s, len(errors), len(warnings)),
	}
}

func qualityScore(s *spec.Specification, errors, warnings int) int {
	score := 100
	score -= errors * 20
	score -= warnings * 5

	if s.AgentConfig.Role != "" {
		score += 5
	}
	if s.AgentConfig.Specialization != "" {
		score += 5
	}
	if len(s.Instructions.Guidelines) > 0 {
		score += 10
	}
	if len(s.Instructions.Examples) > 0 {
		score += 10
	}
	if s.KnowledgeBase.Enabled {
		score += 15
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
