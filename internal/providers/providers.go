// Package providers resolves model identifiers of the form
// "provider/model-id" into live language model clients. Availability is
// decided once at startup from the environment; a provider with no API key
// is simply absent, not an error.
package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

var (
	// ErrUnknownProvider reports a provider prefix outside the registry.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrProviderUnavailable reports a known provider with no credentials.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrUnknownModel reports a model id outside its provider's catalog.
	ErrUnknownModel = errors.New("unknown model")
)

// Builder constructs a client for one model of one provider.
type Builder func(ctx context.Context, modelID string) (llms.Model, error)

// Provider is one registered model vendor.
type Provider struct {
	Name   string
	EnvKey string
	Models []string
	Build  Builder
}

// Available reports whether the provider's API key is present.
func (p Provider) Available() bool {
	return os.Getenv(p.EnvKey) != ""
}

// KnowsModel reports whether the model id is in the provider's catalog.
func (p Provider) KnowsModel(modelID string) bool {
	for _, m := range p.Models {
		if m == modelID {
			return true
		}
	}
	return false
}

// FallbackPolicy names the model used when a requested one cannot be built.
type FallbackPolicy struct {
	Provider string
	ModelID  string
}

// UseCase labels for model recommendation.
const (
	UseCaseComplexAnalysis  = "complex_analysis"
	UseCaseCostOptimization = "cost_optimization"
	UseCaseGeneralTasks     = "general_tasks"
	UseCaseCreativeTasks    = "creative_tasks"
)

// Manager owns the provider registry and the recommendation table.
type Manager struct {
	providers map[string]Provider
	order     []string
	recommend map[string]string
	fallback  FallbackPolicy
	logger    *zap.Logger
}

// NewManager builds the manager with the built-in providers registered.
func NewManager(logger *zap.Logger) *Manager {
	m := &Manager{
		providers: make(map[string]Provider),
		recommend: map[string]string{
			UseCaseComplexAnalysis:  "anthropic/claude-3-5-sonnet-20241022",
			UseCaseCostOptimization: "openai/gpt-4o-mini",
			UseCaseGeneralTasks:     "anthropic/claude-3-haiku-20240307",
			UseCaseCreativeTasks:    "openai/gpt-4o",
		},
		fallback: FallbackPolicy{Provider: "openai", ModelID: "gpt-4o"},
		logger:   logger,
	}

	m.register(Provider{
		Name:   "openai",
		EnvKey: "OPENAI_API_KEY",
		Models: []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"},
		Build: func(_ context.Context, modelID string) (llms.Model, error) {
			return openai.New(openai.WithModel(modelID))
		},
	})
	m.register(Provider{
		Name:   "anthropic",
		EnvKey: "ANTHROPIC_API_KEY",
		Models: []string{
			"claude-3-5-sonnet-20241022",
			"claude-3-5-haiku-20241022",
			"claude-3-opus-20240229",
			"claude-3-haiku-20240307",
		},
		Build: func(_ context.Context, modelID string) (llms.Model, error) {
			return anthropic.New(anthropic.WithModel(modelID))
		},
	})
	m.register(Provider{
		Name:   "google",
		EnvKey: "GOOGLE_API_KEY",
		Models: []string{"gemini-1.5-pro", "gemini-1.5-flash"},
		Build: func(ctx context.Context, modelID string) (llms.Model, error) {
			return googleai.New(ctx,
				googleai.WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
				googleai.WithDefaultModel(modelID))
		},
	})

	return m
}

func (m *Manager) register(p Provider) {
	m.providers[p.Name] = p
	m.order = append(m.order, p.Name)
}

// AvailableProviders returns the names of providers with credentials, in
// registration order.
func (m *Manager) AvailableProviders() []string {
	var out []string
	for _, name := range m.order {
		if m.providers[name].Available() {
			out = append(out, name)
		}
	}
	return out
}

// KnownModel reports whether "provider/model" names a provider in the
// registry and a model in its catalog.
func (m *Manager) KnownModel(qualified string) (providerKnown, modelKnown bool) {
	provider, modelID, ok := split(qualified)
	if !ok {
		return false, false
	}
	p, exists := m.providers[provider]
	if !exists {
		return false, false
	}
	return true, p.KnowsModel(modelID)
}

// CreateModel builds a client for "provider/model". It never panics: every
// failure path returns a nil model with a typed error.
func (m *Manager) CreateModel(ctx context.Context, qualified string) (llms.Model, error) {
	provider, modelID, ok := split(qualified)
	if !ok {
		return nil, fmt.Errorf("%w: malformed model id %q", ErrUnknownProvider, qualified)
	}
	p, exists := m.providers[provider]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	if !p.Available() {
		return nil, fmt.Errorf("%w: %s (missing %s)", ErrProviderUnavailable, provider, p.EnvKey)
	}
	if !p.KnowsModel(modelID) {
		m.logger.Warn("model id rejected by provider catalog",
			zap.String("provider", provider),
			zap.String("model_id", modelID))
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownModel, provider, modelID)
	}
	model, err := p.Build(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("building %s client for %s: %w", provider, modelID, err)
	}
	return model, nil
}

// CreateModelWithFallback resolves the requested model, falling back to the
// configured default when the request cannot be satisfied. The fallback is
// logged so silent substitution never happens.
func (m *Manager) CreateModelWithFallback(ctx context.Context, qualified string) (llms.Model, error) {
	model, err := m.CreateModel(ctx, qualified)
	if err == nil {
		return model, nil
	}
	fallbackID := m.fallback.Provider + "/" + m.fallback.ModelID
	if qualified == fallbackID {
		return nil, err
	}
	m.logger.Warn("model unavailable, using fallback",
		zap.String("requested", qualified),
		zap.String("fallback", fallbackID),
		zap.Error(err))
	return m.CreateModel(ctx, fallbackID)
}

// RecommendedModel returns the configured model for a use case, or the
// fallback model when the use case is unknown.
func (m *Manager) RecommendedModel(useCase string) string {
	if id, ok := m.recommend[useCase]; ok {
		return id
	}
	return m.fallback.Provider + "/" + m.fallback.ModelID
}

// Recommendations returns a copy of the use-case table.
func (m *Manager) Recommendations() map[string]string {
	out := make(map[string]string, len(m.recommend))
	for k, v := range m.recommend {
		out[k] = v
	}
	return out
}

// Fallback returns the active fallback policy.
func (m *Manager) Fallback() FallbackPolicy {
	return m.fallback
}

// ModelsFor returns the catalog of one provider, or nil for unknown names.
func (m *Manager) ModelsFor(provider string) []string {
	p, ok := m.providers[provider]
	if !ok {
		return nil
	}
	out := make([]string, len(p.Models))
	copy(out, p.Models)
	return out
}

func split(qualified string) (provider, modelID string, ok bool) {
	provider, modelID, found := strings.Cut(qualified, "/")
	if !found || provider == "" || modelID == "" {
		return "", "", false
	}
	return provider, modelID, true
}
