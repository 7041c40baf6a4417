package roster

import (
	"github.com/kingrea/scrumteam/internal/provider"
	"github.com/kingrea/scrumteam/internal/role"
)

func cloud(model string) provider.Spec {
	return provider.FromDescriptor(provider.Descriptor{Provider: provider.OpenAI, Deployment: provider.DeploymentCloud, Model: model})
}

func local(model string) provider.Spec {
	return provider.FromDescriptor(provider.Descriptor{Provider: provider.Ollama, Deployment: provider.DeploymentLocal, Model: model})
}

// Default returns the built-in seven member team. Every call returns a
// fresh value.
func Default() *Roster {
	return &Roster{
		Version: 1,
		Architect: role.Definition{
			Name:       "Architect",
			FocusAreas: []string{"architecture", "quality attributes"},
			Responsibilities: []string{
				"Transform requirements into architecture decisions.",
				"Maintain ADR repository and architecture guardrails.",
			},
			Provider: cloud("gpt-4o"),
		},
		Developers: []role.Definition{
			{
				Name:             "Developer A",
				FocusAreas:       []string{"backend", "APIs"},
				Responsibilities: []string{"Implement services", "Review peers"},
				Skills:           []string{"Python", "Go"},
				Provider:         cloud("gpt-4o-mini"),
			},
			{
				Name:             "Developer B",
				FocusAreas:       []string{"frontend", "UX"},
				Responsibilities: []string{"Develop UI", "Maintain accessibility"},
				Skills:           []string{"TypeScript", "React"},
				Provider:         cloud("gpt-4o-mini"),
			},
			{
				Name:             "Developer C",
				FocusAreas:       []string{"DevOps", "Tooling"},
				Responsibilities: []string{"CI/CD", "Observability"},
				Skills:           []string{"Terraform", "Kubernetes"},
				Provider:         local("llama3"),
			},
		},
		Testers: []role.Definition{
			{
				Name:             "Tester A",
				FocusAreas:       []string{"automation", "regression"},
				Responsibilities: []string{"Maintain automated suite"},
				Specialties:      []string{"Selenium", "Playwright"},
				Provider:         cloud("gpt-4o-mini"),
			},
			{
				Name:             "Tester B",
				FocusAreas:       []string{"performance", "security"},
				Responsibilities: []string{"Performance testing", "Security validation"},
				Specialties:      []string{"k6", "ZAP"},
				Provider:         local("llama3"),
			},
			{
				Name:             "Tester C",
				FocusAreas:       []string{"usability", "accessibility"},
				Responsibilities: []string{"UX validation", "Assist UAT"},
				Specialties:      []string{"WCAG", "Manual"},
				Provider:         cloud("gpt-4o-mini"),
			},
		},
	}
}
