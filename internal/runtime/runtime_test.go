package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}
}

func TestNewAgentRequiresModel(t *testing.T) {
	_, err := NewAgent(Options{ID: "a1"})
	assert.Error(t, err)
}

func TestRunReturnsModelOutput(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse("Os FIIs pagam dividendos mensais."), nil)

	agent, err := NewAgent(Options{
		ID:            "a1",
		Name:          "Consultor",
		SystemMessage: "Você é um consultor financeiro.",
		MaxTokens:     2000,
		Temperature:   0.7,
		Model:         mockLLM,
		Logger:        zap.NewNop(),
	})
	require.NoError(t, err)

	result, err := agent.Run(context.Background(), "O que são FIIs?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Os FIIs pagam dividendos mensais.", result.Output)
	assert.GreaterOrEqual(t, result.DurationMs, int64(0))
}

func TestRunReplaysBoundedHistory(t *testing.T) {
	mockLLM := new(MockLLM)
	var captured []llms.MessageContent
	mockLLM.On("GenerateContent", mock.Anything, mock.MatchedBy(func(messages []llms.MessageContent) bool {
		captured = messages
		return true
	})).Return(textResponse("ok"), nil)

	agent, err := NewAgent(Options{
		ID:            "a1",
		SystemMessage: "system",
		Model:         mockLLM,
	})
	require.NoError(t, err)

	history := []Exchange{
		{Input: "um", Output: "1"},
		{Input: "dois", Output: "2"},
		{Input: "três", Output: "3"},
		{Input: "quatro", Output: "4"},
		{Input: "cinco", Output: "5"},
	}
	_, err = agent.Run(context.Background(), "seis", history)
	require.NoError(t, err)

	// system + 3 replayed pairs + current input
	require.Len(t, captured, 8)
	assert.Equal(t, llms.ChatMessageTypeSystem, captured[0].Role)
	assert.Equal(t, llms.TextParts(llms.ChatMessageTypeHuman, "três"), captured[1])
	assert.Equal(t, llms.TextParts(llms.ChatMessageTypeAI, "5"), captured[6])
	assert.Equal(t, llms.TextParts(llms.ChatMessageTypeHuman, "seis"), captured[7])
}

func TestRunRecordsMemory(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse("resposta"), nil)

	memory := NewMemory("agent_a1_memories")
	agent, err := NewAgent(Options{
		ID:            "a1",
		SystemMessage: "system",
		Model:         mockLLM,
		Memory:        memory,
	})
	require.NoError(t, err)

	_, err = agent.Run(context.Background(), "pergunta", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, memory.Len())
}

func TestRunPropagatesModelError(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	agent, err := NewAgent(Options{ID: "a1", SystemMessage: "system", Model: mockLLM})
	require.NoError(t, err)

	_, err = agent.Run(context.Background(), "pergunta", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestRunStreamForwardsChunks(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse("final"), nil)

	agent, err := NewAgent(Options{ID: "a1", SystemMessage: "system", Model: mockLLM})
	require.NoError(t, err)

	var chunks []string
	result, err := agent.RunStream(context.Background(), "pergunta", nil, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)
	assert.Equal(t, "final", result.Output)
	// The mock does not invoke the streaming callback; only the final
	// response is asserted here.
	assert.Empty(t, chunks)
}

func TestMemoryRecall(t *testing.T) {
	m := NewMemory("agent_test_memories")
	ctx := context.Background()

	require.NoError(t, m.Remember(ctx, "user", "quero investir em fundos imobiliários"))
	require.NoError(t, m.Remember(ctx, "user", "prefiro receitas de bolo de chocolate"))

	entries, err := m.Recall(ctx, "investir fundos imobiliários", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "quero investir em fundos imobiliários", entries[0].Content)

	entries, err = m.Recall(ctx, "qualquer coisa", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestKnowledgeSearch(t *testing.T) {
	k := NewKnowledge("kb_advisor")
	k.Index(
		"FIIs distribuem rendimentos mensais aos cotistas",
		"O Tesouro Direto é um programa de títulos públicos",
		"Ações representam frações do capital de empresas",
	)

	docs, err := k.Search(context.Background(), "rendimentos de FIIs mensais", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0], "FIIs")

	_, err = k.Search(context.Background(), "x", 0)
	assert.Error(t, err)
}
