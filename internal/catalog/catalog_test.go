package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownTools(t *testing.T) {
	c := Default()
	for _, name := range []string{"CalculatorTools", "ChartTools", "ReasoningTools", "KnowledgeTools", "YFinanceTools"} {
		tool, err := c.Resolve(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, tool.Name())
	}
}

func TestResolveUnknownTool(t *testing.T) {
	c := Default()
	_, err := c.Resolve("MintAPI", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestHasAndNames(t *testing.T) {
	c := Default()
	assert.True(t, c.Has("DuckDuckGoTools"))
	assert.False(t, c.Has("SomethingElse"))
	assert.Contains(t, c.Names(), "CalculatorTools")
	assert.Len(t, c.Names(), 6)
}

func TestDomainTools(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"YFinanceTools", "CalculatorTools", "ChartTools"}, c.DomainTools("finance"))
	assert.Nil(t, c.DomainTools("astrology"))
}

func TestRegionMismatch(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"MintAPI", "PlaidAPI"}, c.MismatchedTools("brazilian"))
	assert.Empty(t, c.MismatchedTools("american"))

	assert.True(t, c.SourceMismatched("brazilian", "https://finance.yahoo.com/quote/PETR4"))
	assert.True(t, c.SourceMismatched("brazilian", "https://www.Bloomberg.com/markets"))
	assert.False(t, c.SourceMismatched("brazilian", "https://www.b3.com.br"))
	assert.False(t, c.SourceMismatched("american", "https://finance.yahoo.com"))
}
