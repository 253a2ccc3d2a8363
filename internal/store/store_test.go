package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentforge/internal/spec"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSpec(slug string) *spec.Specification {
	return &spec.Specification{
		AgentConfig: spec.AgentConfig{
			Name:        "Consultor Financeiro",
			Slug:        slug,
			Description: "Consultoria de investimentos",
			Role:        "Consultor",
		},
		ModelConfig: spec.ModelConfig{
			Provider:    "openai",
			ModelID:     "gpt-4o-mini",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		ToolsConfig: []spec.ToolConfig{
			{Name: "YFinanceTools", Enabled: true},
		},
		Instructions: spec.Instructions{SystemMessage: "Você é um consultor financeiro."},
		Features:     spec.Features{MemoryEnabled: true, Markdown: true},
	}
}

func TestSpecificationLifecycle(t *testing.T) {
	s := openTestStore(t)

	id, err := s.CreateSpecification(sampleSpec("advisor"), "tester")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	record, err := s.GetSpecification(id)
	require.NoError(t, err)
	assert.Equal(t, SpecStatusPending, record.Status)
	assert.Equal(t, "tester", record.CreatedBy)

	require.NoError(t, s.UpdateSpecificationStatus(id, SpecStatusCreated, "agent-1"))
	record, err = s.GetSpecification(id)
	require.NoError(t, err)
	assert.Equal(t, SpecStatusCreated, record.Status)
	assert.Equal(t, "agent-1", record.CreatedAgentID)

	_, err = s.GetSpecification("missing")
	assert.True(t, errors.Is(err, ErrSpecificationNotFound))
}

func TestCreateAgentRoundTrip(t *testing.T) {
	s := openTestStore(t)

	agent, err := s.CreateAgent(sampleSpec("advisor"), "tester")
	require.NoError(t, err)
	require.NotEmpty(t, agent.ID)
	assert.Equal(t, AgentStatusActive, agent.Status)

	loaded, err := s.GetActiveAgent(agent.ID)
	require.NoError(t, err)

	sp, err := loaded.Specification()
	require.NoError(t, err)
	assert.Equal(t, "Consultor Financeiro", sp.AgentConfig.Name)
	assert.Equal(t, "gpt-4o-mini", sp.ModelConfig.ModelID)
	assert.Equal(t, []string{"YFinanceTools"}, sp.EnabledToolNames())
	assert.True(t, sp.Features.MemoryEnabled)
	assert.Equal(t, "Você é um consultor financeiro.", sp.Instructions.SystemMessage)
}

func TestDuplicateSlug(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateAgent(sampleSpec("advisor"), "")
	require.NoError(t, err)

	_, err = s.CreateAgent(sampleSpec("advisor"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateSlug))
}

func TestDeleteHidesAgentFromRuntime(t *testing.T) {
	s := openTestStore(t)

	agent, err := s.CreateAgent(sampleSpec("advisor"), "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteAgent(agent.ID))

	_, err = s.GetActiveAgent(agent.ID)
	assert.True(t, errors.Is(err, ErrAgentNotFound))

	deleted, err := s.GetAgent(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, AgentStatusDeleted, deleted.Status)

	assert.True(t, errors.Is(s.DeleteAgent("missing"), ErrAgentNotFound))
}

func TestTouchAgentUsage(t *testing.T) {
	s := openTestStore(t)

	agent, err := s.CreateAgent(sampleSpec("advisor"), "")
	require.NoError(t, err)

	require.NoError(t, s.TouchAgentUsage(agent.ID))
	require.NoError(t, s.TouchAgentUsage(agent.ID))

	loaded, err := s.GetAgent(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.TotalSessions)
	assert.NotNil(t, loaded.LastUsedAt)
}

func TestKnowledgeBase(t *testing.T) {
	s := openTestStore(t)

	kb, err := s.CreateKnowledgeBase("agent-1", "kb_advisor", "url", []string{"https://www.infomoney.com.br"})
	require.NoError(t, err)
	assert.Equal(t, "configured", kb.Status)

	loaded, err := s.GetKnowledgeBase("agent-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []string{"https://www.infomoney.com.br"}, loaded.SourceList())

	missing, err := s.GetKnowledgeBase("agent-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSessionsAndRuns(t *testing.T) {
	s := openTestStore(t)

	session, err := s.CreateSession("agent-1", "user-1")
	require.NoError(t, err)

	for _, input := range []string{"primeira", "segunda", "terceira", "quarta"} {
		require.NoError(t, s.AppendRun(&Run{
			SessionID:    session.ID,
			InputMessage: input,
			ResponseText: "resposta para " + input,
			Status:       "completed",
		}))
	}
	require.NoError(t, s.AppendRun(&Run{
		SessionID:    session.ID,
		InputMessage: "falhou",
		Status:       "error",
		ErrorMessage: "model timeout",
	}))

	runs, err := s.RecentRuns(session.ID, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "segunda", runs[0].InputMessage)
	assert.Equal(t, "quarta", runs[2].InputMessage)

	loaded, err := s.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.TotalMessages)
	assert.NotNil(t, loaded.LastMessageAt)

	sessions, err := s.ListSessions("agent-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	_, err = s.GetSession("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestListAgentsFiltering(t *testing.T) {
	s := openTestStore(t)

	first := sampleSpec("advisor_a")
	first.AgentConfig.Specialization = "Renda variável"
	_, err := s.CreateAgent(first, "tester")
	require.NoError(t, err)

	second := sampleSpec("advisor_b")
	second.AgentConfig.Specialization = "Renda fixa"
	created, err := s.CreateAgent(second, "tester")
	require.NoError(t, err)
	require.NoError(t, s.DeleteAgent(created.ID))

	all, err := s.ListAgents(AgentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := s.ListAgents(AgentFilter{Status: AgentStatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "advisor_a", active[0].Slug)

	fixed, err := s.ListAgents(AgentFilter{Specialization: "Renda fixa"})
	require.NoError(t, err)
	require.Len(t, fixed, 1)
	assert.Equal(t, "advisor_b", fixed[0].Slug)

	page, err := s.ListAgents(AgentFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
