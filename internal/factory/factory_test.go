package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agentforge/internal/catalog"
	"agentforge/internal/providers"
	"agentforge/internal/spec"
	"agentforge/internal/store"
)

func newTestFactory(t *testing.T) (*Factory, *store.Store) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")

	st, err := store.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	f := New(st, catalog.Default(), providers.NewManager(zap.NewNop()), zap.NewNop())
	return f, st
}

func provisionableSpec(slug string) *spec.Specification {
	return &spec.Specification{
		AgentConfig: spec.AgentConfig{
			Name:        "Consultor Financeiro",
			Slug:        slug,
			Description: "Consultoria de investimentos no mercado brasileiro",
			Role:        "Consultor",
		},
		ModelConfig: spec.ModelConfig{
			Provider:    "openai",
			ModelID:     "gpt-4o-mini",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		ToolsConfig: []spec.ToolConfig{
			{Name: "CalculatorTools", Enabled: true},
			{Name: "KnowledgeTools", Enabled: true},
		},
		Instructions: spec.Instructions{SystemMessage: "Você é um consultor financeiro."},
		Features:     spec.Features{MemoryEnabled: true, KnowledgeEnabled: true, Markdown: true},
		KnowledgeBase: spec.KnowledgeBase{
			Enabled: true,
			Type:    "url",
			Sources: []string{"https://www.infomoney.com.br"},
		},
	}
}

func TestCreateFromSpecification(t *testing.T) {
	f, st := newTestFactory(t)

	result, err := f.CreateFromSpecification(context.Background(), provisionableSpec("advisor"), "tester")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.AgentID)
	assert.NotEmpty(t, result.SpecificationID)
	require.NotNil(t, result.TestResult)
	assert.True(t, result.TestResult.Success)
	require.NotNil(t, result.KnowledgeBase)
	assert.Equal(t, "kb_advisor", result.KnowledgeBase.Name)

	record, err := st.GetSpecification(result.SpecificationID)
	require.NoError(t, err)
	assert.Equal(t, store.SpecStatusCreated, record.Status)
	assert.Equal(t, result.AgentID, record.CreatedAgentID)
}

func TestCreateRejectsIncompleteSpecification(t *testing.T) {
	f, _ := newTestFactory(t)

	sp := provisionableSpec("advisor")
	sp.Instructions.SystemMessage = ""

	result, err := f.CreateFromSpecification(context.Background(), sp, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSpecification))
	assert.False(t, result.Success)
	assert.False(t, result.Validation.IsValid)
	assert.Empty(t, result.AgentID)
}

func TestCreateDuplicateSlugMarksSpecificationRejected(t *testing.T) {
	f, st := newTestFactory(t)

	_, err := f.CreateFromSpecification(context.Background(), provisionableSpec("advisor"), "")
	require.NoError(t, err)

	result, err := f.CreateFromSpecification(context.Background(), provisionableSpec("advisor"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDuplicateSlug))

	record, err := st.GetSpecification(result.SpecificationID)
	require.NoError(t, err)
	assert.Equal(t, store.SpecStatusRejected, record.Status)
}

func TestLoadDynamicAgent(t *testing.T) {
	f, _ := newTestFactory(t)

	result, err := f.CreateFromSpecification(context.Background(), provisionableSpec("advisor"), "")
	require.NoError(t, err)

	agent, err := f.LoadDynamicAgent(context.Background(), result.AgentID)
	require.NoError(t, err)

	assert.Equal(t, result.AgentID, agent.ID())
	assert.Equal(t, "Consultor Financeiro", agent.Name())
	assert.Equal(t, []string{"CalculatorTools", "KnowledgeTools"}, agent.ToolNames())

	require.NotNil(t, agent.Memory())
	assert.Equal(t, "agent_"+result.AgentID+"_memories", agent.Memory().Namespace())

	require.NotNil(t, agent.Knowledge())
	assert.Equal(t, "kb_advisor", agent.Knowledge().Name())
	assert.Equal(t, 1, agent.Knowledge().Len())
}

func TestLoadSkipsUnknownTools(t *testing.T) {
	f, _ := newTestFactory(t)

	sp := provisionableSpec("advisor")
	sp.ToolsConfig = append(sp.ToolsConfig, spec.ToolConfig{Name: "MintAPI", Enabled: true})

	result, err := f.CreateFromSpecification(context.Background(), sp, "")
	require.NoError(t, err)

	agent, err := f.LoadDynamicAgent(context.Background(), result.AgentID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CalculatorTools", "KnowledgeTools"}, agent.ToolNames())
}

func TestLoadDeletedAgentFails(t *testing.T) {
	f, st := newTestFactory(t)

	result, err := f.CreateFromSpecification(context.Background(), provisionableSpec("advisor"), "")
	require.NoError(t, err)
	require.NoError(t, st.DeleteAgent(result.AgentID))

	_, err = f.LoadDynamicAgent(context.Background(), result.AgentID)
	assert.True(t, errors.Is(err, store.ErrAgentNotFound))
}

func TestMemoryPersistsAcrossLoads(t *testing.T) {
	f, _ := newTestFactory(t)

	result, err := f.CreateFromSpecification(context.Background(), provisionableSpec("advisor"), "")
	require.NoError(t, err)

	first, err := f.LoadDynamicAgent(context.Background(), result.AgentID)
	require.NoError(t, err)
	require.NoError(t, first.Memory().Remember(context.Background(), "user", "lembre disso"))

	second, err := f.LoadDynamicAgent(context.Background(), result.AgentID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Memory().Len())
}
