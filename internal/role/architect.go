package role

import (
	"fmt"
	"strings"

	"github.com/kingrea/scrumteam/internal/artifact"
)

// patternTriggers is evaluated in order; the first set sharing a keyword
// with the requirements wins.
var patternTriggers = []struct {
	pattern  string
	keywords []string
}{
	{artifact.PatternEventDriven, []string{"realtime", "latency"}},
	{artifact.PatternMicroservices, []string{"scalable", "microservice", "distributed"}},
	{artifact.PatternDataLakehouse, []string{"analytics", "pipeline", "data"}},
}

// Architect turns requirements into architecture decisions.
type Architect struct {
	Base
}

// NewArchitect builds an architect from p.
func NewArchitect(p Profile) *Architect {
	return &Architect{Base: newBase(p)}
}

func (a *Architect) Discipline() Discipline { return Architecture }

// SelectPattern picks the architecture pattern for a keyword set.
func SelectPattern(keywords []string) string {
	set := keywordSet(keywords)
	for _, trigger := range patternTriggers {
		for _, keyword := range trigger.keywords {
			if _, ok := set[keyword]; ok {
				return trigger.pattern
			}
		}
	}
	return artifact.PatternLayeredService
}

// CriticalQuality is security when the keywords mention it, otherwise reliability.
func CriticalQuality(keywords []string) string {
	if _, ok := keywordSet(keywords)["security"]; ok {
		return artifact.QualitySecurity
	}
	return artifact.QualityReliability
}

// ProduceArchitecture derives the architecture decision for one iteration.
// The result depends only on its inputs.
func (a *Architect) ProduceArchitecture(requirements, keywords []string) artifact.ArchitectureDecision {
	pattern := SelectPattern(keywords)
	quality := CriticalQuality(keywords)
	records := []artifact.ADR{
		{
			ID:     "ADR-001",
			Title:  fmt.Sprintf("Adopt %s architecture", pattern),
			Status: "Accepted",
			Context: render("adr-context", scaffoldData{
				Requirements: append([]string{}, requirements...),
			}),
			Decision: fmt.Sprintf("We will implement a %s architecture to balance %s and delivery speed.", pattern, quality),
			Consequences: "Engineering teams must enforce contract-first APIs, shared observability, and " +
				"document all integration patterns.",
		},
		{
			ID:           "ADR-002",
			Title:        "Centralise decision records",
			Status:       "Accepted",
			Context:      "Teams require visibility into architectural intent and trade-offs.",
			Decision:     "Store ADRs alongside source code with change history reviewed in pull requests.",
			Consequences: "Architecture changes trigger reviews from architect and lead developer.",
		},
	}
	return artifact.ArchitectureDecision{
		Pattern:         pattern,
		CriticalQuality: quality,
		Decisions: fmt.Sprintf("Adopt a %s architecture emphasizing %s. Ensure services expose "+
			"contract-first APIs with versioning and automated governance.", pattern, quality),
		ADRProcess: "Capture each decision in ADRs stored with the codebase.",
		Governance: "Architect collaborates with developers to review design diagrams before coding.",
		ADRRecords: records,
	}
}

// RespondToInstruction commits the architect to updating guardrails and ADRs.
func (a *Architect) RespondToInstruction(instruction string) string {
	return fmt.Sprintf("%s will update architecture guardrails to address: %s. "+
		"Any new decisions will be captured through ADRs for team visibility.", a.name, instruction)
}

func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		set[strings.ToLower(keyword)] = struct{}{}
	}
	return set
}
