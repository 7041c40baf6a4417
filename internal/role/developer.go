package role

import (
	"fmt"

	"github.com/kingrea/scrumteam/internal/artifact"
)

var reviewComments = []string{
	"Verify unit tests exist for each feature module.",
	"Confirm adherence to coding standards and linting passes.",
	"Ensure threat modeling considerations are addressed in code.",
}

// Developer plans, scaffolds and reviews implementation work.
type Developer struct {
	Base
	skills []string
}

// NewDeveloper builds a developer from p.
func NewDeveloper(p Profile, skills []string) *Developer {
	return &Developer{Base: newBase(p), skills: append([]string{}, skills...)}
}

func (d *Developer) Discipline() Discipline { return Development }

// Skills lists the developer's technologies.
func (d *Developer) Skills() []string { return append([]string{}, d.skills...) }

// CreateImplementationPlan emits one task per requirement plus a closing CI task.
func (d *Developer) CreateImplementationPlan(requirements []string, arch artifact.ArchitectureDecision) *artifact.ImplementationPlan {
	pattern := patternOrDefault(arch)
	plan := artifact.NewImplementationPlan()
	plan.CodeReview = append(plan.CodeReview,
		"Peer review all merge requests with checklists covering readability, testing, and security.")
	for _, requirement := range requirements {
		plan.Tasks = append(plan.Tasks, fmt.Sprintf("Implement feature for: %s aligned with %s pattern.", requirement, pattern))
	}
	plan.Tasks = append(plan.Tasks, "Integrate static analysis and continuous integration pipelines.")
	return plan
}

// ReviewCode appends the review checklist to plan and returns the comments added.
func (d *Developer) ReviewCode(plan *artifact.ImplementationPlan) []string {
	comments := append([]string{}, reviewComments...)
	plan.ReviewNotes = append(plan.ReviewNotes, comments...)
	return comments
}

// ProduceSourceCode renders the scaffold module owned by this developer.
func (d *Developer) ProduceSourceCode(requirements []string, arch artifact.ArchitectureDecision) *artifact.SourceCode {
	data := scaffoldData{Owner: d.name, Pattern: patternOrDefault(arch), Requirements: requirements}
	return &artifact.SourceCode{
		Owner:         d.name,
		Module:        render("module-name", data),
		Summary:       "Bootstrap module scaffolding implementation aligned to ADR decisions.",
		Code:          render("source-code", data),
		FollowUpNotes: []string{},
	}
}

// ProduceUnitTests renders the parametrised test suite paired with the scaffold.
func (d *Developer) ProduceUnitTests(requirements []string, arch artifact.ArchitectureDecision) *artifact.UnitTests {
	data := scaffoldData{Owner: d.name, Prefix: "test_", Requirements: requirements}
	return &artifact.UnitTests{
		Owner:         d.name,
		Module:        render("module-name", data),
		Summary:       "Parametrised unit tests validating generated feature contracts across requirements.",
		Code:          render("unit-tests", data),
		Tools:         []string{"pytest", "coverage"},
		QualityFocus:  qualityOrDefault(arch),
		FollowUpNotes: []string{},
	}
}

// RespondToInstruction commits the developer to refining tasks and tests.
func (d *Developer) RespondToInstruction(instruction string) string {
	return fmt.Sprintf("%s will refine implementation tasks and tests to satisfy instruction: %s. "+
		"Updates will be paired with code review checklist adjustments.", d.name, instruction)
}

func patternOrDefault(arch artifact.ArchitectureDecision) string {
	if arch.Pattern == "" {
		return artifact.PatternLayeredService
	}
	return arch.Pattern
}

func qualityOrDefault(arch artifact.ArchitectureDecision) string {
	if arch.CriticalQuality == "" {
		return "quality"
	}
	return arch.CriticalQuality
}
