// Package factory turns validated specifications into persisted agents and
// rebuilds live agent instances from storage.
package factory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"

	"agentforge/internal/catalog"
	"agentforge/internal/providers"
	"agentforge/internal/runtime"
	"agentforge/internal/spec"
	"agentforge/internal/store"
	agenttools "agentforge/internal/tools"
	"agentforge/internal/validation"
)

// ErrInvalidSpecification reports a specification that failed the
// structural gate.
var ErrInvalidSpecification = errors.New("invalid specification")

// TestResult is the outcome of the post-creation smoke test. A failed
// smoke test does not roll back the created agent; the record stays and
// the failure is reported.
type TestResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CreateResult reports a provisioning attempt.
type CreateResult struct {
	Success         bool                        `json:"success"`
	AgentID         string                      `json:"agent_id,omitempty"`
	SpecificationID string                      `json:"specification_id,omitempty"`
	Validation      validation.StructuralResult `json:"validation_result"`
	TestResult      *TestResult                 `json:"test_result,omitempty"`
	KnowledgeBase   *store.KnowledgeBase        `json:"knowledge_base,omitempty"`
}

// Factory provisions and loads dynamic agents.
type Factory struct {
	store     *store.Store
	validator *validation.StructuralValidator
	catalog   *catalog.Catalog
	providers *providers.Manager
	logger    *zap.Logger

	mu       sync.Mutex
	memories map[string]*runtime.Memory
}

func New(st *store.Store, cat *catalog.Catalog, pm *providers.Manager, logger *zap.Logger) *Factory {
	return &Factory{
		store:     st,
		validator: validation.NewStructuralValidator(cat),
		catalog:   cat,
		providers: pm,
		logger:    logger,
		memories:  make(map[string]*runtime.Memory),
	}
}

// CreateFromSpecification validates, persists and smoke-tests a new agent.
// The structural gate is the only hard stop; persistence failures after it
// are returned as errors, and a failed smoke test is reported without
// rolling anything back.
func (f *Factory) CreateFromSpecification(ctx context.Context, sp *spec.Specification, createdBy string) (*CreateResult, error) {
	result := &CreateResult{Validation: f.validator.Validate(sp)}
	if !result.Validation.IsValid {
		return result, fmt.Errorf("%w: %v", ErrInvalidSpecification, result.Validation.Errors)
	}

	specID, err := f.store.CreateSpecification(sp, createdBy)
	if err != nil {
		return result, err
	}
	result.SpecificationID = specID

	agent, err := f.store.CreateAgent(sp, createdBy)
	if err != nil {
		if markErr := f.store.UpdateSpecificationStatus(specID, store.SpecStatusRejected, ""); markErr != nil {
			f.logger.Warn("marking specification rejected failed", zap.String("spec_id", specID), zap.Error(markErr))
		}
		return result, err
	}
	result.AgentID = agent.ID

	if sp.KnowledgeBase.Enabled {
		kb, err := f.store.CreateKnowledgeBase(
			agent.ID,
			fmt.Sprintf("kb_%s", agent.Slug),
			sp.KnowledgeBase.Type,
			sp.KnowledgeBase.Sources,
		)
		if err != nil {
			return result, err
		}
		result.KnowledgeBase = kb
	}

	if err := f.store.UpdateSpecificationStatus(specID, store.SpecStatusCreated, agent.ID); err != nil {
		return result, err
	}

	test := TestResult{Success: true}
	if _, err := f.LoadDynamicAgent(ctx, agent.ID); err != nil {
		test = TestResult{Success: false, Error: err.Error()}
		f.logger.Warn("agent smoke test failed",
			zap.String("agent_id", agent.ID),
			zap.Error(err))
	}
	result.TestResult = &test
	result.Success = true

	f.logger.Info("agent created",
		zap.String("agent_id", agent.ID),
		zap.String("slug", agent.Slug),
		zap.Bool("smoke_test_ok", test.Success))

	return result, nil
}

// LoadDynamicAgent rebuilds a live agent from storage. Only active agents
// load; unknown tools are skipped with a log line rather than failing the
// load, and an unavailable model falls back per provider policy.
func (f *Factory) LoadDynamicAgent(ctx context.Context, agentID string) (*runtime.Agent, error) {
	record, err := f.store.GetActiveAgent(agentID)
	if err != nil {
		return nil, err
	}
	sp, err := record.Specification()
	if err != nil {
		return nil, fmt.Errorf("decoding agent %s configuration: %w", agentID, err)
	}

	qualified := sp.ModelConfig.ModelID
	if sp.ModelConfig.Provider != "" {
		qualified = sp.ModelConfig.Provider + "/" + sp.ModelConfig.ModelID
	}
	model, err := f.providers.CreateModelWithFallback(ctx, qualified)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", agentID, err)
	}

	var knowledge *runtime.Knowledge
	if record.KnowledgeEnabled {
		knowledge, err = f.loadKnowledge(agentID)
		if err != nil {
			return nil, err
		}
	}

	agentTools := f.resolveTools(&sp, knowledge)

	var memory *runtime.Memory
	if record.MemoryEnabled {
		memory = f.memoryFor(agentID)
	}

	agent, err := runtime.NewAgent(runtime.Options{
		ID:            record.ID,
		Name:          record.Name,
		Description:   record.Description,
		SystemMessage: sp.Instructions.SystemMessage,
		MaxTokens:     sp.ModelConfig.MaxTokens,
		Temperature:   sp.ModelConfig.Temperature,
		Markdown:      record.Markdown,
		Model:         model,
		Tools:         agentTools,
		Memory:        memory,
		Knowledge:     knowledge,
		Logger:        f.logger,
	})
	if err != nil {
		return nil, err
	}

	if err := f.store.TouchAgentUsage(agentID); err != nil {
		f.logger.Warn("usage update failed", zap.String("agent_id", agentID), zap.Error(err))
	}

	return agent, nil
}

func (f *Factory) resolveTools(sp *spec.Specification, knowledge *runtime.Knowledge) []tools.Tool {
	var out []tools.Tool
	for _, tc := range sp.ToolsConfig {
		if !tc.Enabled {
			continue
		}
		tool, err := f.catalog.Resolve(tc.Name, tc.Config)
		if err != nil {
			f.logger.Warn("skipping tool",
				zap.String("tool", tc.Name),
				zap.Error(err))
			continue
		}
		if kt, ok := tool.(*agenttools.Knowledge); ok && knowledge != nil {
			kt.Bind(knowledge)
		}
		out = append(out, tool)
	}
	return out
}

func (f *Factory) loadKnowledge(agentID string) (*runtime.Knowledge, error) {
	descriptor, err := f.store.GetKnowledgeBase(agentID)
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		return nil, nil
	}
	knowledge := runtime.NewKnowledge(descriptor.Name)
	knowledge.Index(descriptor.SourceList()...)
	return knowledge, nil
}

// memoryFor returns the agent's in-process memory, creating it on first
// use. Memories survive reloads within the same process.
func (f *Factory) memoryFor(agentID string) *runtime.Memory {
	namespace := fmt.Sprintf("agent_%s_memories", agentID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.memories[namespace]; ok {
		return m
	}
	m := runtime.NewMemory(namespace)
	f.memories[namespace] = m
	return m
}
