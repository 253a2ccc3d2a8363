package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAvailabilityFollowsEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("GOOGLE_API_KEY", "")

	m := NewManager(zap.NewNop())
	assert.Equal(t, []string{"anthropic"}, m.AvailableProviders())
}

func TestCreateModelUnknownProvider(t *testing.T) {
	m := NewManager(zap.NewNop())

	model, err := m.CreateModel(context.Background(), "cohere/command-r")
	assert.Nil(t, model)
	assert.True(t, errors.Is(err, ErrUnknownProvider))

	model, err = m.CreateModel(context.Background(), "gpt-4o")
	assert.Nil(t, model)
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}

func TestCreateModelUnavailableProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	m := NewManager(zap.NewNop())
	model, err := m.CreateModel(context.Background(), "anthropic/claude-3-haiku-20240307")
	assert.Nil(t, model)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestCreateModelRejectsUncataloguedModel(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	m := NewManager(zap.NewNop())
	model, err := m.CreateModel(context.Background(), "openai/not-a-real-model")
	assert.Nil(t, model)
	assert.True(t, errors.Is(err, ErrUnknownModel))
}

func TestCreateModelWithFallbackOnUncataloguedModel(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	m := NewManager(zap.NewNop())
	model, err := m.CreateModelWithFallback(context.Background(), "openai/gpt-99")
	require.NoError(t, err)
	assert.NotNil(t, model)
}

func TestCreateModelWithFallbackStopsAtFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	m := NewManager(zap.NewNop())
	model, err := m.CreateModelWithFallback(context.Background(), "anthropic/claude-3-opus-20240229")
	assert.Nil(t, model)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestKnownModel(t *testing.T) {
	m := NewManager(zap.NewNop())

	providerKnown, modelKnown := m.KnownModel("openai/gpt-4o")
	assert.True(t, providerKnown)
	assert.True(t, modelKnown)

	providerKnown, modelKnown = m.KnownModel("openai/gpt-99")
	assert.True(t, providerKnown)
	assert.False(t, modelKnown)

	providerKnown, _ = m.KnownModel("mystery/model")
	assert.False(t, providerKnown)
}

func TestRecommendedModel(t *testing.T) {
	m := NewManager(zap.NewNop())

	assert.Equal(t, "anthropic/claude-3-5-sonnet-20241022", m.RecommendedModel(UseCaseComplexAnalysis))
	assert.Equal(t, "openai/gpt-4o-mini", m.RecommendedModel(UseCaseCostOptimization))
	assert.Equal(t, "anthropic/claude-3-haiku-20240307", m.RecommendedModel(UseCaseGeneralTasks))
	assert.Equal(t, "openai/gpt-4o", m.RecommendedModel(UseCaseCreativeTasks))
	assert.Equal(t, "openai/gpt-4o", m.RecommendedModel("something_else"))
}

func TestModelsFor(t *testing.T) {
	m := NewManager(zap.NewNop())
	assert.Contains(t, m.ModelsFor("anthropic"), "claude-3-5-sonnet-20241022")
	assert.Nil(t, m.ModelsFor("cohere"))
}
