package role

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/scrumteam/internal/artifact"
	"github.com/kingrea/scrumteam/internal/provider"
)

func TestSelectPatternPriority(t *testing.T) {
	tests := []struct {
		keywords []string
		want     string
	}{
		{[]string{"realtime", "scalable", "data"}, artifact.PatternEventDriven},
		{[]string{"latency"}, artifact.PatternEventDriven},
		{[]string{"distributed", "analytics"}, artifact.PatternMicroservices},
		{[]string{"pipeline"}, artifact.PatternDataLakehouse},
		{[]string{"Data"}, artifact.PatternDataLakehouse},
		{[]string{"mobile", "secure"}, artifact.PatternLayeredService},
		{nil, artifact.PatternLayeredService},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SelectPattern(tc.keywords), "keywords %v", tc.keywords)
	}
}

func TestProduceArchitecture(t *testing.T) {
	architect := NewArchitect(Profile{Name: "Architect"})
	reqs := []string{"Secure data storage", "Responsive mobile app"}
	decision := architect.ProduceArchitecture(reqs, []string{"data", "security", "storage"})

	assert.Equal(t, artifact.PatternDataLakehouse, decision.Pattern)
	assert.Equal(t, artifact.QualitySecurity, decision.CriticalQuality)
	require.Len(t, decision.ADRRecords, 2)
	assert.Equal(t, "ADR-001", decision.ADRRecords[0].ID)
	assert.Equal(t, "Adopt data-lakehouse architecture", decision.ADRRecords[0].Title)
	assert.Equal(t,
		"Requirements emphasise Secure data storage, Responsive mobile app which align with the selected pattern.",
		decision.ADRRecords[0].Context)
	assert.Equal(t,
		"We will implement a data-lakehouse architecture to balance security and delivery speed.",
		decision.ADRRecords[0].Decision)
	assert.Equal(t, "ADR-002", decision.ADRRecords[1].ID)
	assert.Equal(t,
		"Adopt a data-lakehouse architecture emphasizing security. Ensure services expose contract-first APIs with versioning and automated governance.",
		decision.Decisions)

	again := architect.ProduceArchitecture(reqs, []string{"data", "security", "storage"})
	assert.Equal(t, decision, again)
}

func TestProduceArchitectureWithoutRequirements(t *testing.T) {
	decision := NewArchitect(Profile{Name: "Architect"}).ProduceArchitecture(nil, nil)
	assert.Equal(t, artifact.QualityReliability, decision.CriticalQuality)
	assert.Equal(t,
		"Requirements emphasise stakeholder goals which align with the selected pattern.",
		decision.ADRRecords[0].Context)
}

func TestDeveloperPlanAndReview(t *testing.T) {
	dev := NewDeveloper(Profile{Name: "Developer A"}, []string{"Go"})
	arch := artifact.ArchitectureDecision{Pattern: artifact.PatternMicroservices}
	plan := dev.CreateImplementationPlan([]string{"Login", "Logout"}, arch)

	assert.Equal(t, []string{
		"Implement feature for: Login aligned with microservices pattern.",
		"Implement feature for: Logout aligned with microservices pattern.",
		"Integrate static analysis and continuous integration pipelines.",
	}, plan.Tasks)
	require.Len(t, plan.CodeReview, 1)
	assert.Empty(t, plan.ReviewNotes)
	assert.NotNil(t, plan.FollowUpActions)

	comments := dev.ReviewCode(plan)
	assert.Len(t, comments, 3)
	assert.Equal(t, comments, plan.ReviewNotes)
	dev.ReviewCode(plan)
	assert.Len(t, plan.ReviewNotes, 6)
}

func TestDeveloperPlanDefaultsPattern(t *testing.T) {
	plan := NewDeveloper(Profile{Name: "D"}, nil).CreateImplementationPlan([]string{"x"}, artifact.ArchitectureDecision{})
	assert.Equal(t, "Implement feature for: x aligned with layered-service pattern.", plan.Tasks[0])
}

func TestDeveloperScaffolds(t *testing.T) {
	dev := NewDeveloper(Profile{Name: "Developer A"}, nil)
	arch := artifact.ArchitectureDecision{Pattern: artifact.PatternEventDriven, CriticalQuality: artifact.QualitySecurity}
	reqs := []string{"Real-time telemetry ingestion", "Secure data storage"}

	source := dev.ProduceSourceCode(reqs, arch)
	assert.Equal(t, "developer_a.py", source.Module)
	assert.Equal(t, "Developer A", source.Owner)
	wantSource := strings.Join([]string{
		`"""Module owned by Developer A implementing the event-driven architecture decisions."""`,
		``,
		`from dataclasses import dataclass`,
		``,
		`@dataclass`,
		`class FeatureContract:`,
		`    requirement: str`,
		`    acceptance_criteria: list[str]`,
		``,
		`def implement_feature(requirement: str) -> FeatureContract:`,
		`    """Scaffold function produced during the sprint planning stage."""`,
		`    return FeatureContract(`,
		`        requirement=requirement,`,
		`        acceptance_criteria=[`,
		`            "Real-time telemetry ingestion",`,
		`            "Secure data storage",`,
		`        ],`,
		`    )`,
		``,
		`__all__ = ["FeatureContract", "implement_feature"]`,
	}, "\n")
	assert.Equal(t, wantSource, source.Code)

	tests := dev.ProduceUnitTests(reqs, arch)
	assert.Equal(t, "test_developer_a.py", tests.Module)
	assert.Equal(t, []string{"pytest", "coverage"}, tests.Tools)
	assert.Equal(t, artifact.QualitySecurity, tests.QualityFocus)
	wantTests := strings.Join([]string{
		`import pytest`,
		``,
		`from project import features`,
		``,
		`@pytest.mark.parametrize("requirement", [`,
		`    "Real-time telemetry ingestion",`,
		`    "Secure data storage",`,
		`])`,
		`def test_feature_contract(requirement):`,
		`    contract = features.implement_feature(requirement)`,
		`    assert requirement in contract.acceptance_criteria`,
		`    assert contract.requirement == requirement`,
	}, "\n")
	assert.Equal(t, wantTests, tests.Code)
}

func TestTesterArtifacts(t *testing.T) {
	tester := NewTester(Profile{Name: "Tester B", FocusAreas: []string{"performance", "security"}}, []string{"k6"})
	arch := artifact.ArchitectureDecision{CriticalQuality: artifact.QualityReliability}
	reqs := []string{"A", "B", "C"}

	plan := tester.CreateTestPlan(reqs, arch)
	assert.Equal(t, "Focus on validating reliability risks early via automated suites.", plan.Strategy[1])
	assert.Len(t, plan.Tests, 3)
	assert.Len(t, plan.Tooling, 2)

	script := tester.CreateTestScript(reqs, arch)
	assert.Len(t, script.Steps, 3+len(reqs)+1)
	assert.Equal(t, "Execute scenario covering requirement: B", script.Steps[4])
	assert.Equal(t, []string{"performance", "security"}, script.Focus)

	summary := tester.SummarizeTesting(reqs, arch)
	assert.Equal(t, "Covered 3 requirements with automated and exploratory suites.", summary.Coverage)
	assert.Equal(t, "Ongoing monitoring of reliability metrics to detect regression.", summary.Risks)

	assert.Equal(t, "Focus on validating quality risks early via automated suites.",
		tester.CreateTestPlan(reqs, artifact.ArchitectureDecision{}).Strategy[1])
}

func TestRespondToInstruction(t *testing.T) {
	instruction := "Improve accessibility"
	assert.Equal(t,
		"Architect will update architecture guardrails to address: Improve accessibility. Any new decisions will be captured through ADRs for team visibility.",
		NewArchitect(Profile{Name: "Architect"}).RespondToInstruction(instruction))
	assert.Equal(t,
		"Developer A will refine implementation tasks and tests to satisfy instruction: Improve accessibility. Updates will be paired with code review checklist adjustments.",
		NewDeveloper(Profile{Name: "Developer A"}, nil).RespondToInstruction(instruction))
	assert.Equal(t,
		"Tester A will extend validation charters to cover instruction: Improve accessibility. Regression and exploratory suites will be updated accordingly.",
		NewTester(Profile{Name: "Tester A"}, nil).RespondToInstruction(instruction))

	base := newBase(Profile{Name: "Scribe"})
	assert.Equal(t,
		"Scribe acknowledges instruction 'Improve accessibility' and will incorporate it into upcoming work.",
		base.RespondToInstruction(instruction))
}

func TestSummarizeAndProvider(t *testing.T) {
	dev := NewDeveloper(Profile{Name: "Developer B", FocusAreas: []string{"frontend", "UX"}}, nil)
	assert.Equal(t, "Developer B: focus on frontend, UX", dev.Summarize())
	assert.Equal(t, DefaultProvider, dev.Provider())

	require.NoError(t, dev.SetProvider("ollama:llama3"))
	assert.Equal(t, provider.Descriptor{Provider: "ollama", Deployment: "local", Model: "llama3"}, dev.Provider())

	err := dev.SetProvider(map[string]any{"model": "x"})
	var validationErr *provider.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "ollama", dev.Provider().Provider)
}

func TestRolesSatisfyInterface(t *testing.T) {
	roles := []Role{
		NewArchitect(Profile{Name: "a"}),
		NewDeveloper(Profile{Name: "d"}, nil),
		NewTester(Profile{Name: "t"}, nil),
	}
	assert.Equal(t, Architecture, roles[0].Discipline())
	assert.Equal(t, Development, roles[1].Discipline())
	assert.Equal(t, Testing, roles[2].Discipline())
}

func TestRegistry(t *testing.T) {
	registry := DefaultRegistry()
	assert.Equal(t, []Kind{KindArchitect, KindDeveloper, KindTester}, registry.Kinds())

	r, err := registry.Resolve(Definition{
		Kind:     KindDeveloper,
		Name:     " Developer Z ",
		Skills:   []string{"Rust"},
		Provider: provider.FromString("ollama:llama3"),
	})
	require.NoError(t, err)
	dev, ok := r.(*Developer)
	require.True(t, ok)
	assert.Equal(t, "Developer Z", dev.Name())
	assert.Equal(t, []string{"Rust"}, dev.Skills())
	assert.True(t, dev.Provider().IsLocal())

	_, err = registry.Resolve(Definition{Kind: "manager", Name: "M"})
	assert.Error(t, err)
	_, err = registry.Resolve(Definition{Kind: KindTester})
	assert.Error(t, err)
	_, err = registry.Resolve(Definition{Kind: KindArchitect, Name: "A", Provider: provider.FromMap(map[string]any{})})
	assert.Error(t, err)

	assert.Error(t, registry.Register(KindTester, func(Definition) (Role, error) { return nil, nil }))
	assert.Error(t, registry.Register("", func(Definition) (Role, error) { return nil, nil }))
	assert.Error(t, registry.Register("x", nil))
}
