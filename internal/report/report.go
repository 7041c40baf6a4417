// Package report renders an iteration result as a plain-text, multi-section
// summary or as an indented JSON dump.
package report

import (
	"fmt"
	"strings"

	"github.com/kingrea/scrumteam/internal/provider"
	"github.com/kingrea/scrumteam/internal/team"
)

// Section is one titled block of the text report.
type Section struct {
	Title string
	Lines []string
}

// Text renders the section with its "=== Title ===" header.
func (s Section) Text() string {
	return strings.Join(append([]string{"=== " + s.Title + " ==="}, s.Lines...), "\n")
}

// Format renders result as the plain-text report, sections separated by a
// blank line.
func Format(result *team.Result) string {
	sections := Sections(result)
	blocks := make([]string, len(sections))
	for i, section := range sections {
		blocks[i] = section.Text()
	}
	return strings.Join(blocks, "\n\n")
}

// Sections splits result into report sections in a fixed order. Source code,
// unit tests, test scripts, test summaries, follow-ups and the interaction
// log are omitted when empty.
func Sections(result *team.Result) []Section {
	var w writer

	w.header("Requirements")
	for _, requirement := range result.Requirements {
		w.linef("- %s", requirement)
	}

	w.header("Architecture Decisions")
	arch := result.Architecture
	w.linef("Pattern: %s", arch.Pattern)
	w.linef("Critical_Quality: %s", arch.CriticalQuality)
	w.linef("Decisions: %s", arch.Decisions)
	w.linef("Adr_Process: %s", arch.ADRProcess)
	w.linef("Governance: %s", arch.Governance)

	w.header("LLM Provider Assignments")
	if p := result.Providers.Architect; p.Provider != "" {
		w.linef("Architect: %s", describe(p))
	}
	for i, p := range result.Providers.Developers {
		w.linef("Developer %d: %s", i+1, describe(p))
	}
	for i, p := range result.Providers.Testers {
		w.linef("Tester %d: %s", i+1, describe(p))
	}

	w.header("Implementation Plans")
	for i, plan := range result.ImplementationPlans {
		w.linef("Developer %d plan:", i+1)
		if plan == nil {
			continue
		}
		for _, task := range plan.Tasks {
			w.linef("  * %s", task)
		}
		for _, note := range plan.ReviewNotes {
			w.linef("  - Review: %s", note)
		}
	}

	if len(result.SourceCode) > 0 {
		w.header("Source Code Deliverables")
		for _, entry := range result.SourceCode {
			if entry == nil {
				continue
			}
			w.linef("%s (owner: %s)", or(entry.Module, "module.py"), or(entry.Owner, "Developer"))
			if entry.Summary != "" {
				w.linef("  - Summary: %s", entry.Summary)
			}
		}
	}

	if len(result.UnitTests) > 0 {
		w.header("Unit Test Suites")
		for _, entry := range result.UnitTests {
			if entry == nil {
				continue
			}
			w.linef("%s (owner: %s)", or(entry.Module, "test_module.py"), or(entry.Owner, "Developer"))
			if entry.Summary != "" {
				w.linef("  - Summary: %s", entry.Summary)
			}
			if len(entry.Tools) > 0 {
				w.linef("  - Tools: %s", strings.Join(entry.Tools, ", "))
			}
		}
	}

	w.header("Test Strategies")
	for i, plan := range result.TestPlans {
		w.linef("Tester %d plan:", i+1)
		if plan == nil {
			continue
		}
		for _, strategy := range plan.Strategy {
			w.linef("  * %s", strategy)
		}
		for _, test := range plan.Tests {
			w.linef("  - Test: %s", test)
		}
	}

	if len(result.TestScripts) > 0 {
		w.header("Test Scripts")
		for _, entry := range result.TestScripts {
			if entry == nil {
				continue
			}
			w.linef("Script owner: %s", or(entry.Owner, "Tester"))
			for _, step := range entry.Steps {
				w.linef("  * %s", step)
			}
			if len(entry.Tooling) > 0 {
				w.linef("  - Tooling: %s", strings.Join(entry.Tooling, ", "))
			}
		}
	}

	if len(result.TestSummaries) > 0 {
		w.header("Test Summaries")
		for _, entry := range result.TestSummaries {
			if entry == nil {
				continue
			}
			w.linef("Summary owner: %s", or(entry.Owner, "Tester"))
			for _, field := range []struct{ label, value string }{
				{"Coverage", entry.Coverage},
				{"Risks", entry.Risks},
				{"Next Steps", entry.NextSteps},
			} {
				if field.value != "" {
					w.linef("  - %s: %s", field.label, field.value)
				}
			}
		}
	}

	w.header("Best Practices Checklist")
	for _, practice := range result.BestPractices {
		w.linef("- %s", practice)
	}

	w.header("Quality Assurance Guardrails")
	w.linef("Code_Review: %s", result.QualityAssurance.CodeReview)
	w.linef("Testing: %s", result.QualityAssurance.Testing)

	if len(result.FollowUps) > 0 {
		w.header("Follow-up Instructions")
		for i, fu := range result.FollowUps {
			w.linef("Instruction %d: %s", i+1, fu.Instruction)
			w.linef("  - Architecture: %s", fu.Architecture)
			for _, note := range fu.Development {
				w.linef("  - Development: %s", note)
			}
			for _, note := range fu.Testing {
				w.linef("  - Testing: %s", note)
			}
		}
	}

	if len(result.Logs) > 0 {
		w.header("Interaction Log")
		for _, entry := range result.Logs {
			w.linef("Speaker: %s", entry.Speaker)
			w.linef("Prompt: %s", entry.Prompt)
			w.linef("Response: %s", entry.Response)
		}
	}

	return w.sections
}

// JSON returns the two-space indented dump of result.
func JSON(result *team.Result) (string, error) {
	data, err := result.MarshalIndent()
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	return string(data), nil
}

func describe(d provider.Descriptor) string {
	detail := or(d.Provider, "unknown")
	if d.Deployment != "" {
		detail += " (" + d.Deployment + ")"
	}
	if d.Model != "" {
		detail += " model=" + d.Model
	}
	return detail
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

type writer struct {
	sections []Section
}

func (w *writer) header(title string) {
	w.sections = append(w.sections, Section{Title: title})
}

func (w *writer) linef(format string, args ...any) {
	last := &w.sections[len(w.sections)-1]
	last.Lines = append(last.Lines, fmt.Sprintf(format, args...))
}
