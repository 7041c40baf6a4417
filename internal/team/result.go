package team

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kingrea/scrumteam/internal/artifact"
	"github.com/kingrea/scrumteam/internal/provider"
)

// QualityAssurance carries the fixed guardrail statements of a result.
type QualityAssurance struct {
	CodeReview string `json:"code_review"`
	Testing    string `json:"testing"`
}

const (
	codeReviewGuardrail = "All developer outputs include mandatory peer review checklists."
	testingGuardrail    = "Test plans, scripts, and summaries align with automated and exploratory coverage for every requirement."
)

// ProviderAssignments snapshots each member's provider when the iteration ran.
type ProviderAssignments struct {
	Architect  provider.Descriptor   `json:"architect"`
	Developers []provider.Descriptor `json:"developers"`
	Testers    []provider.Descriptor `json:"testers"`
}

// TranscriptEntry is one line of the interaction log.
type TranscriptEntry struct {
	Speaker  string `json:"speaker"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// FollowUp records how the team responded to one instruction.
type FollowUp struct {
	Instruction  string   `json:"instruction"`
	Architecture string   `json:"architecture"`
	Development  []string `json:"development"`
	Testing      []string `json:"testing"`
}

// Result is everything one iteration produced. Developer artifacts are
// index-aligned with the team's developers, tester artifacts with its
// testers. Logs and FollowUps only grow.
type Result struct {
	Requirements        []string                       `json:"requirements"`
	Keywords            []string                       `json:"keywords"`
	Architecture        artifact.ArchitectureDecision  `json:"architecture"`
	ImplementationPlans []*artifact.ImplementationPlan `json:"implementation_plans"`
	SourceCode          []*artifact.SourceCode         `json:"source_code"`
	UnitTests           []*artifact.UnitTests          `json:"unit_tests"`
	TestPlans           []*artifact.TestPlan           `json:"test_plans"`
	TestScripts         []*artifact.TestScript         `json:"test_scripts"`
	TestSummaries       []*artifact.TestSummary        `json:"test_summaries"`
	BestPractices       []string                       `json:"best_practices"`
	QualityAssurance    QualityAssurance               `json:"quality_assurance"`
	Providers           ProviderAssignments            `json:"llm_providers"`
	Logs                []TranscriptEntry              `json:"logs"`
	FollowUps           []FollowUp                     `json:"follow_ups"`

	// iteration is the id stamped on logbook lines and exported documents.
	iteration string
}

// IterationID returns the id minted when the result was produced; it is
// empty for results decoded from JSON.
func (r *Result) IterationID() string {
	return r.iteration
}

func (r *Result) log(speaker, prompt string, payload any) {
	r.Logs = append(r.Logs, TranscriptEntry{Speaker: speaker, Prompt: prompt, Response: formatPayload(payload)})
}

// formatPayload renders structured transcript responses as two-space
// indented JSON with sorted keys. Strings pass through unchanged.
func formatPayload(payload any) string {
	if text, ok := payload.(string); ok {
		return text
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprint(payload)
	}
	// Decoding into generic values sorts object keys on re-encode.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Sprint(payload)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(generic); err != nil {
		return fmt.Sprint(payload)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// MarshalIndent returns the two-space indented JSON dump of the result.
func (r *Result) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("team: encode result: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ParseResult decodes a JSON dump produced by MarshalIndent.
func ParseResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("team: decode result: %w", err)
	}
	r.ensureLists()
	return &r, nil
}

// Snapshot returns a deep copy of the result that keeps its iteration id.
// Follow-ups applied to r afterwards do not reach the copy.
func (r *Result) Snapshot() (*Result, error) {
	data, err := r.MarshalIndent()
	if err != nil {
		return nil, err
	}
	clone, err := ParseResult(data)
	if err != nil {
		return nil, err
	}
	clone.iteration = r.iteration
	return clone, nil
}

func (r *Result) ensureLists() {
	if r.Logs == nil {
		r.Logs = []TranscriptEntry{}
	}
	if r.FollowUps == nil {
		r.FollowUps = []FollowUp{}
	}
	for _, plan := range r.ImplementationPlans {
		if plan != nil && plan.FollowUpActions == nil {
			plan.FollowUpActions = []string{}
		}
	}
	for _, plan := range r.TestPlans {
		if plan != nil && plan.FollowUpActions == nil {
			plan.FollowUpActions = []string{}
		}
	}
}
