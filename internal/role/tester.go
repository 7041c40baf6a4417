package role

import (
	"fmt"

	"github.com/kingrea/scrumteam/internal/artifact"
)

// Tester designs and summarises validation work.
type Tester struct {
	Base
	specialties []string
}

// NewTester builds a tester from p.
func NewTester(p Profile, specialties []string) *Tester {
	return &Tester{Base: newBase(p), specialties: append([]string{}, specialties...)}
}

func (t *Tester) Discipline() Discipline { return Testing }

// Specialties lists the tester's tools and techniques.
func (t *Tester) Specialties() []string { return append([]string{}, t.specialties...) }

// CreateTestPlan derives one acceptance-criteria test per requirement.
func (t *Tester) CreateTestPlan(requirements []string, arch artifact.ArchitectureDecision) *artifact.TestPlan {
	plan := artifact.NewTestPlan()
	plan.Strategy = append(plan.Strategy,
		"Adopt test pyramid with unit, integration, contract, and exploratory testing.",
		fmt.Sprintf("Focus on validating %s risks early via automated suites.", qualityOrDefault(arch)),
	)
	for _, requirement := range requirements {
		plan.Tests = append(plan.Tests, "Derive acceptance criteria and test cases for requirement: "+requirement)
	}
	plan.Tooling = append(plan.Tooling,
		"Integrate automated testing into CI/CD with parallel execution.",
		"Collect observability metrics to validate SLIs/SLOs during testing.",
	)
	return plan
}

// CreateTestScript lists the executable steps, one scenario per requirement.
func (t *Tester) CreateTestScript(requirements []string, arch artifact.ArchitectureDecision) *artifact.TestScript {
	steps := []string{
		"Initialise test environment with architecture guardrails validated.",
		"Deploy latest build artifact to staging leveraging infrastructure-as-code templates.",
		fmt.Sprintf("Seed observability dashboards to capture %s metrics.", qualityOrDefault(arch)),
	}
	for _, requirement := range requirements {
		steps = append(steps, "Execute scenario covering requirement: "+requirement)
	}
	steps = append(steps, "Capture evidence and attach to test management system.")
	return &artifact.TestScript{
		Owner:         t.name,
		Focus:         t.FocusAreas(),
		Steps:         steps,
		Tooling:       []string{"pytest", "postman", "playwright", "k6"},
		FollowUpNotes: []string{},
	}
}

// SummarizeTesting reports anticipated coverage and risks.
func (t *Tester) SummarizeTesting(requirements []string, arch artifact.ArchitectureDecision) *artifact.TestSummary {
	return &artifact.TestSummary{
		Owner:         t.name,
		Coverage:      fmt.Sprintf("Covered %d requirements with automated and exploratory suites.", len(requirements)),
		Risks:         fmt.Sprintf("Ongoing monitoring of %s metrics to detect regression.", qualityOrDefault(arch)),
		NextSteps:     "Schedule regression rerun post-deployment and update accessibility charters.",
		FollowUpNotes: []string{},
	}
}

// RespondToInstruction commits the tester to extending validation charters.
func (t *Tester) RespondToInstruction(instruction string) string {
	return fmt.Sprintf("%s will extend validation charters to cover instruction: %s. "+
		"Regression and exploratory suites will be updated accordingly.", t.name, instruction)
}
