// Package artifact defines the documents the team produces during an
// iteration and the store that exports them to disk. Every artifact is owned
// by one role; list fields start empty so review and follow-up notes can be
// appended without existence checks.
package artifact

// Architecture patterns the architect chooses between.
const (
	PatternLayeredService = "layered-service"
	PatternEventDriven    = "event-driven"
	PatternMicroservices  = "microservices"
	PatternDataLakehouse  = "data-lakehouse"
)

// Critical quality attributes.
const (
	QualitySecurity    = "security"
	QualityReliability = "reliability"
)

// ADR is one architecture decision record.
type ADR struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	Context      string `json:"context"`
	Decision     string `json:"decision"`
	Consequences string `json:"consequences"`
}

// ArchitectureDecision is derived once per iteration and only read afterwards.
type ArchitectureDecision struct {
	Pattern         string `json:"pattern"`
	CriticalQuality string `json:"critical_quality"`
	Decisions       string `json:"decisions"`
	ADRProcess      string `json:"adr_process"`
	Governance      string `json:"governance"`
	ADRRecords      []ADR  `json:"adr_records"`
}

// ImplementationPlan is a developer's task breakdown for the iteration.
type ImplementationPlan struct {
	Tasks           []string `json:"tasks"`
	CodeReview      []string `json:"code_review"`
	ReviewNotes     []string `json:"review_notes"`
	FollowUpActions []string `json:"follow_up_actions"`
}

// NewImplementationPlan returns a plan with every list initialised.
func NewImplementationPlan() *ImplementationPlan {
	return &ImplementationPlan{
		Tasks:           []string{},
		CodeReview:      []string{},
		ReviewNotes:     []string{},
		FollowUpActions: []string{},
	}
}

// SourceCode is a scaffold module produced by a developer.
type SourceCode struct {
	Owner         string   `json:"owner"`
	Module        string   `json:"module"`
	Summary       string   `json:"summary"`
	Code          string   `json:"code"`
	FollowUpNotes []string `json:"follow_up_notes"`
}

// UnitTests is a scaffold test suite produced by a developer.
type UnitTests struct {
	Owner         string   `json:"owner"`
	Module        string   `json:"module"`
	Summary       string   `json:"summary"`
	Code          string   `json:"code"`
	Tools         []string `json:"tools"`
	QualityFocus  string   `json:"quality_focus"`
	FollowUpNotes []string `json:"follow_up_notes"`
}

// TestPlan is a tester's validation strategy.
type TestPlan struct {
	Strategy        []string `json:"strategy"`
	Tests           []string `json:"tests"`
	Tooling         []string `json:"tooling"`
	FollowUpActions []string `json:"follow_up_actions"`
}

// NewTestPlan returns a plan with every list initialised.
func NewTestPlan() *TestPlan {
	return &TestPlan{
		Strategy:        []string{},
		Tests:           []string{},
		Tooling:         []string{},
		FollowUpActions: []string{},
	}
}

// TestScript lists the executable steps backing a test plan.
type TestScript struct {
	Owner         string   `json:"owner"`
	Focus         []string `json:"focus"`
	Steps         []string `json:"steps"`
	Tooling       []string `json:"tooling"`
	FollowUpNotes []string `json:"follow_up_notes"`
}

// TestSummary reports expected testing outcomes and risks.
type TestSummary struct {
	Owner         string   `json:"owner"`
	Coverage      string   `json:"coverage"`
	Risks         string   `json:"risks"`
	NextSteps     string   `json:"next_steps"`
	FollowUpNotes []string `json:"follow_up_notes"`
}
