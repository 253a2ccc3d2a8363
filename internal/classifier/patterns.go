package classifier

import "regexp"

// PatternRegistry is the static table of detection patterns consumed by the
// Classifier. Pattern data is Portuguese-heavy because the product serves the
// Brazilian market; the matching machinery is language-agnostic.
type PatternRegistry struct {
	Domains    []DomainPatterns
	Markets    []MarketPatterns
	Complexity []ComplexityPatterns
	Concepts   []Concept
}

// DomainPatterns maps one domain to its detection patterns.
type DomainPatterns struct {
	Domain   string
	Patterns []*regexp.Regexp
}

// MarketPatterns maps one regional market to its detection patterns.
// Markets are evaluated in registry order; the first with a match wins.
type MarketPatterns struct {
	Market   string
	Patterns []*regexp.Regexp
}

// ComplexityPatterns maps one complexity level to its detection patterns.
// Levels are evaluated in registry order; the default level is "medium".
type ComplexityPatterns struct {
	Level    string
	Patterns []*regexp.Regexp
}

// Concept is one key concept with its preservation-importance weight.
type Concept struct {
	Text       string
	Importance float64
}

// Complexity levels reported by the classifier.
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// Known markets.
const (
	MarketBrazilian = "brazilian"
	MarketAmerican  = "american"
	MarketEuropean  = "european"
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+expr))
	}
	return out
}

// DefaultRegistry returns the built-in pattern registry.
func DefaultRegistry() *PatternRegistry {
	return &PatternRegistry{
		Domains: []DomainPatterns{
			{
				Domain: "finance",
				Patterns: compileAll(
					`\b(investir|investimento|ação|ações|fii|fiis|cdb|tesouro|renda|fixa|variável)\b`,
					`\b(real|r\$|dólar|euro|moeda)\b`,
					`\b(mercado|bolsa|b3|cvm|anbima)\b`,
					`\b(risco|retorno|lucro|prejuízo|ganho|perda)\b`,
					`\b(portfólio|carteira|diversificação)\b`,
				),
			},
			{
				Domain: "marketing",
				Patterns: compileAll(
					`\b(marketing|publicidade|anúncio|campanha|seo|sem)\b`,
					`\b(redes sociais|instagram|facebook|linkedin|twitter)\b`,
					`\b(conversão|lead|cliente|venda|vendas)\b`,
					`\b(analytics|métricas|kpi|roi)\b`,
				),
			},
			{
				Domain: "legal",
				Patterns: compileAll(
					`\b(lei|legal|jurídico|processo|contrato|documento)\b`,
					`\b(advogado|advocacia|tribunal|justiça)\b`,
					`\b(compliance|regulamentação|norma|regulamento)\b`,
				),
			},
			{
				Domain: "technology",
				Patterns: compileAll(
					`\b(programação|código|software|desenvolvimento)\b`,
					`\b(api|backend|frontend|database|banco de dados)\b`,
					`\b(arquitetura|sistema|tecnologia|tech)\b`,
				),
			},
		},
		Markets: []MarketPatterns{
			{
				Market: MarketBrazilian,
				Patterns: compileAll(
					`\b(real|r\$|b3|cvm|anbima|infomoney|xp)\b`,
					`\b(mercado brasileiro|bolsa brasileira)\b`,
					`\b(fii|fiis|cdb|tesouro)\b`,
					`\b(liberdade financeira|investir com segurança)\b`,
				),
			},
			{
				Market: MarketAmerican,
				Patterns: compileAll(
					`\b(dollar|\$|nyse|nasdaq|sec|morningstar)\b`,
					`\b(us market|american market)\b`,
				),
			},
			{
				Market: MarketEuropean,
				Patterns: compileAll(
					`\b(euro|€|euronext|lse|fca)\b`,
					`\b(european market|eu market)\b`,
				),
			},
		},
		Complexity: []ComplexityPatterns{
			{
				Level: ComplexitySimple,
				Patterns: compileAll(
					`\b(simples|básico|fácil|direto)\b`,
					`\b(resumo|overview|visão geral)\b`,
				),
			},
			{
				Level: ComplexityComplex,
				Patterns: compileAll(
					`\b(complexo|detalhado|análise profunda|estudo completo)\b`,
					`\b(análise técnica|fundamentalista|quantitativa)\b`,
				),
			},
		},
		Concepts: []Concept{
			{Text: "gastos pessoais", Importance: 0.9},
			{Text: "furos nos gastos", Importance: 0.8},
			{Text: "investir", Importance: 0.9},
			{Text: "liberdade financeira", Importance: 0.8},
			{Text: "visão de mercado", Importance: 0.7},
			{Text: "investir com segurança", Importance: 0.8},
			{Text: "bom retorno", Importance: 0.7},
			{Text: "fiis", Importance: 0.8},
			{Text: "cálculos", Importance: 0.6},
			{Text: "análise", Importance: 0.7},
			{Text: "rendimento", Importance: 0.6},
			{Text: "opções", Importance: 0.5},
			{Text: "mercado brasileiro", Importance: 0.8},
			{Text: "real", Importance: 0.7},
			{Text: "r$", Importance: 0.7},
			{Text: "baixo risco", Importance: 0.8},
			{Text: "alto risco", Importance: 0.8},
		},
	}
}
