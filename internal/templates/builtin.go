package templates

import "agentforge/internal/spec"

func reasoningToolConfig() spec.ToolConfig {
	return spec.ToolConfig{
		Name:    "ReasoningTools",
		Enabled: true,
		Config:  map[string]interface{}{"think": true, "analyze": true},
	}
}

func allFeatures() spec.Features {
	return spec.Features{
		ReasoningEnabled: true,
		MemoryEnabled:    true,
		KnowledgeEnabled: true,
		Markdown:         true,
	}
}

func builtinTemplates() []*Template {
	return []*Template{financeTemplate(), marketingTemplate(), legalTemplate(), technologyTemplate()}
}

func financeTemplate() *Template {
	return &Template{
		Name:        "Finance Agent",
		Slug:        "finance",
		Description: "Agente especializado em análise financeira e investimentos",
		Base: spec.Specification{
			AgentConfig: spec.AgentConfig{
				Name:           "Agente Financeiro",
				Slug:           "finance_agent",
				Description:    "Agente especializado em análise financeira e investimentos",
				Role:           "Consultor financeiro digital",
				Specialization: "Análise financeira e investimentos",
			},
			ModelConfig: spec.ModelConfig{
				Provider:    "openai",
				ModelID:     "gpt-4o-mini",
				MaxTokens:   2000,
				Temperature: 0.7,
			},
			ToolsConfig: []spec.ToolConfig{
				{Name: "DuckDuckGoTools", Enabled: true, Config: map[string]interface{}{}},
				{Name: "YFinanceTools", Enabled: true, Config: map[string]interface{}{
					"stock_price":             true,
					"analyst_recommendations": true,
				}},
				reasoningToolConfig(),
			},
			Instructions: spec.Instructions{
				SystemMessage: "Você é um consultor financeiro especializado em análise de investimentos e gestão financeira pessoal. Você ajuda usuários a tomar decisões financeiras informadas, analisar oportunidades de investimento e planejar suas finanças pessoais.",
				Guidelines: []string{
					"Sempre analise o perfil de risco do usuário antes de fazer recomendações",
					"Forneça explicações claras sobre conceitos financeiros complexos",
					"Use dados atualizados para suas análises",
					"Nunca faça promessas de retorno específico",
					"Sempre considere a diversificação em suas recomendações",
				},
				Examples: []spec.Example{{
					Input:  "Como começar a investir?",
					Output: "Para começar a investir, primeiro precisamos entender seu perfil financeiro. Vou te ajudar a: 1) Estabelecer uma reserva de emergência, 2) Definir seus objetivos financeiros, 3) Escolher investimentos adequados ao seu perfil de risco.",
				}},
			},
			Features: allFeatures(),
			KnowledgeBase: spec.KnowledgeBase{
				Enabled: true,
				Type:    "url",
				Sources: []string{
					"https://www.investopedia.com",
					"https://finance.yahoo.com",
					"https://www.bloomberg.com",
				},
			},
			Validation: spec.Validation{
				TestScenarios: []spec.TestScenario{
					{
						Input:            "Como está o mercado de ações hoje?",
						ExpectedBehavior: "Fornecer análise atualizada do mercado usando ferramentas de dados financeiros",
					},
					{
						Input:            "Quais são os melhores investimentos para iniciantes?",
						ExpectedBehavior: "Explicar conceitos básicos e sugerir investimentos adequados ao perfil conservador",
					},
				},
			},
		},
		Tools: []string{"DuckDuckGoTools", "YFinanceTools", "ReasoningTools"},
		KnowledgeSources: []string{
			"https://www.investopedia.com",
			"https://finance.yahoo.com",
			"https://www.bloomberg.com",
			"https://www.xpinc.com/research",
		},
		Examples: []spec.Example{
			{
				Input:  "Analise minha carteira de investimentos",
				Output: "Vou analisar sua carteira considerando diversificação, risco e alinhamento com seus objetivos.",
			},
			{
				Input:  "Como está o mercado de fundos imobiliários?",
				Output: "Vou pesquisar as tendências atuais do mercado de FIIs e fornecer uma análise detalhada.",
			},
		},
	}
}

func marketingTemplate() *Template {
	return &Template{
		Name:        "Marketing Agent",
		Slug:        "marketing",
		Description: "Agente especializado em estratégias de marketing digital",
		Base: spec.Specification{
			AgentConfig: spec.AgentConfig{
				Name:           "Agente de Marketing",
				Slug:           "marketing_agent",
				Description:    "Agente especializado em estratégias de marketing digital",
				Role:           "Consultor de marketing digital",
				Specialization: "Marketing digital e estratégias de crescimento",
			},
			ModelConfig: spec.ModelConfig{
				Provider:    "openai",
				ModelID:     "gpt-4o-mini",
				MaxTokens:   2000,
				Temperature: 0.8,
			},
			ToolsConfig: []spec.ToolConfig{
				{Name: "DuckDuckGoTools", Enabled: true, Config: map[string]interface{}{}},
				reasoningToolConfig(),
			},
			Instructions: spec.Instructions{
				SystemMessage: "Você é um especialista em marketing digital com vasta experiência em estratégias de crescimento, SEO, marketing de conteúdo e análise de dados. Você ajuda empresas e profissionais a desenvolver estratégias de marketing eficazes.",
				Guidelines: []string{
					"Sempre considere o público-alvo em suas recomendações",
					"Use dados e métricas para fundamentar suas sugestões",
					"Mantenha-se atualizado com as últimas tendências do marketing digital",
					"Forneça estratégias práticas e implementáveis",
					"Considere o ROI em todas as recomendações",
				},
				Examples: []spec.Example{{
					Input:  "Como melhorar meu SEO?",
					Output: "Para melhorar seu SEO, vou analisar: 1) Otimização on-page, 2) Estratégia de conteúdo, 3) Backlinks, 4) Performance técnica. Vou fornecer um plano detalhado.",
				}},
			},
			Features: allFeatures(),
			KnowledgeBase: spec.KnowledgeBase{
				Enabled: true,
				Type:    "url",
				Sources: []string{
					"https://blog.hubspot.com",
					"https://marketingland.com",
					"https://moz.com/blog",
				},
			},
			Validation: spec.Validation{
				TestScenarios: []spec.TestScenario{{
					Input:            "Crie uma estratégia de marketing para meu produto",
					ExpectedBehavior: "Desenvolver estratégia completa considerando público-alvo, canais e métricas",
				}},
			},
		},
		Tools: []string{"DuckDuckGoTools", "ReasoningTools"},
		KnowledgeSources: []string{
			"https://blog.hubspot.com",
			"https://marketingland.com",
			"https://moz.com/blog",
			"https://contentmarketinginstitute.com",
		},
		Examples: []spec.Example{{
			Input:  "Desenvolva uma estratégia de conteúdo",
			Output: "Vou criar uma estratégia de conteúdo baseada no seu público-alvo e objetivos de negócio.",
		}},
	}
}

func legalTemplate() *Template {
	return &Template{
		Name:        "Legal Agent",
		Slug:        "legal",
		Description: "Agente especializado em pesquisa jurídica e compliance",
		Base: spec.Specification{
			AgentConfig: spec.AgentConfig{
				Name:           "Agente Jurídico",
				Slug:           "legal_agent",
				Description:    "Agente especializado em pesquisa jurídica e compliance",
				Role:           "Assistente de pesquisa jurídica",
				Specialization: "Pesquisa jurídica e análise legal",
			},
			ModelConfig: spec.ModelConfig{
				Provider:    "openai",
				ModelID:     "gpt-4o",
				MaxTokens:   3000,
				Temperature: 0.3,
			},
			ToolsConfig: []spec.ToolConfig{
				{Name: "DuckDuckGoTools", Enabled: true, Config: map[string]interface{}{}},
				reasoningToolConfig(),
			},
			Instructions: spec.Instructions{
				SystemMessage: "Você é um assistente de pesquisa jurídica especializado em análise legal, compliance e interpretação de leis. Você ajuda profissionais do direito e empresas a navegar questões legais complexas.",
				Guidelines: []string{
					"Sempre cite fontes confiáveis em suas análises",
					"Destaque a jurisdição relevante para cada questão",
					"Forneça contexto histórico quando apropriado",
					"Nunca substitua consulta com advogado qualificado",
					"Mantenha-se atualizado com mudanças legislativas",
				},
				Examples: []spec.Example{{
					Input:  "Quais são os requisitos para abrir uma empresa?",
					Output: "Vou analisar os requisitos legais para abertura de empresa, considerando o tipo de sociedade e localização.",
				}},
			},
			Features: allFeatures(),
			KnowledgeBase: spec.KnowledgeBase{
				Enabled: true,
				Type:    "url",
				Sources: []string{
					"https://www.law.com",
					"https://www.americanbar.org",
					"https://www.justia.com",
				},
			},
			Validation: spec.Validation{
				TestScenarios: []spec.TestScenario{{
					Input:            "Analise este contrato",
					ExpectedBehavior: "Fornecer análise detalhada dos termos e identificar pontos de atenção",
				}},
			},
		},
		Tools: []string{"DuckDuckGoTools", "ReasoningTools"},
		KnowledgeSources: []string{
			"https://www.law.com",
			"https://www.americanbar.org",
			"https://www.justia.com",
		},
		Examples: []spec.Example{{
			Input:  "Pesquise sobre leis de proteção de dados",
			Output: "Vou pesquisar as principais leis de proteção de dados e suas implicações para empresas.",
		}},
	}
}

func technologyTemplate() *Template {
	return &Template{
		Name:        "Technology Agent",
		Slug:        "technology",
		Description: "Agente especializado em desenvolvimento e arquitetura de software",
		Base: spec.Specification{
			AgentConfig: spec.AgentConfig{
				Name:           "Agente de Tecnologia",
				Slug:           "technology_agent",
				Description:    "Agente especializado em desenvolvimento e arquitetura de software",
				Role:           "Consultor de tecnologia e desenvolvimento",
				Specialization: "Desenvolvimento de software e arquitetura",
			},
			ModelConfig: spec.ModelConfig{
				Provider:    "openai",
				ModelID:     "gpt-4o-mini",
				MaxTokens:   2000,
				Temperature: 0.6,
			},
			ToolsConfig: []spec.ToolConfig{
				{Name: "DuckDuckGoTools", Enabled: true, Config: map[string]interface{}{}},
				reasoningToolConfig(),
			},
			Instructions: spec.Instructions{
				SystemMessage: "Você é um especialista em tecnologia com vasta experiência em desenvolvimento de software, arquitetura de sistemas e melhores práticas de programação. Você ajuda desenvolvedores e empresas a resolver problemas técnicos complexos.",
				Guidelines: []string{
					"Sempre considere a escalabilidade em suas recomendações",
					"Use melhores práticas de segurança em todas as sugestões",
					"Forneça exemplos de código quando apropriado",
					"Considere a manutenibilidade do código",
					"Mantenha-se atualizado com as últimas tecnologias",
				},
				Examples: []spec.Example{{
					Input:  "Como implementar autenticação JWT?",
					Output: "Vou te mostrar como implementar autenticação JWT de forma segura, incluindo geração de tokens e validação.",
				}},
			},
			Features: allFeatures(),
			KnowledgeBase: spec.KnowledgeBase{
				Enabled: true,
				Type:    "url",
				Sources: []string{
					"https://github.com",
					"https://stackoverflow.com",
					"https://docs.python.org",
				},
			},
			Validation: spec.Validation{
				TestScenarios: []spec.TestScenario{{
					Input:            "Desenvolva uma API REST",
					ExpectedBehavior: "Fornecer arquitetura e implementação de API REST seguindo melhores práticas",
				}},
			},
		},
		Tools: []string{"DuckDuckGoTools", "ReasoningTools"},
		KnowledgeSources: []string{
			"https://github.com",
			"https://stackoverflow.com",
			"https://docs.python.org",
		},
		Examples: []spec.Example{{
			Input:  "Analise esta arquitetura de microserviços",
			Output: "Vou analisar sua arquitetura de microserviços e sugerir melhorias para performance e escalabilidade.",
		}},
	}
}
