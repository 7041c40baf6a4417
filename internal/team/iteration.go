package team

import (
	"context"
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/kingrea/scrumteam/internal/artifact"
	"github.com/kingrea/scrumteam/internal/logging"
	"github.com/kingrea/scrumteam/internal/practices"
	"github.com/kingrea/scrumteam/internal/provider"
	"github.com/kingrea/scrumteam/internal/requirements"
)

// ErrEmptyInput indicates the requirements document holds no requirement lines.
var ErrEmptyInput = errors.New("team: requirement document must contain at least one requirement line")

const (
	speakerScrumMaster  = "Scrum Master"
	speakerProductOwner = "Product Owner"

	promptArchitecture   = "Provide architecture guidance for the upcoming sprint."
	promptImplementation = "Draft implementation plan aligned with the architecture and requirements."
	promptSourceCode     = "Produce source code scaffold that realises the implementation plan."
	promptUnitTests      = "Deliver unit tests paired with the implementation work."
	promptTestPlan       = "Outline validation strategy covering functional and non-functional needs."
	promptTestScript     = "Provide executable test scripts supporting the plan."
	promptTestSummary    = "Summarise anticipated testing outcomes and risks."
)

// RunIteration reads the requirements document at path and runs one sprint
// over it.
func (t *Team) RunIteration(ctx context.Context, path string) (*Result, error) {
	reqs, err := requirements.Read(t.fs, path)
	if err != nil {
		t.logbook.Error("read %s: %v", path, err)
		return nil, err
	}
	return t.RunIterationFromRequirements(ctx, path, reqs)
}

// RunIterationFromRequirements runs the sprint over already normalized
// requirement lines. source names where they came from in the transcript.
// Stages run in a fixed order: architecture, development per developer,
// testing per tester, then assembly.
func (t *Team) RunIterationFromRequirements(ctx context.Context, source string, reqs []string) (*Result, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyInput
	}
	reqs = append([]string{}, reqs...)
	id := t.newID()
	logger := t.log(ctx).With("iteration", id)
	keywords := requirements.ExtractKeywords(reqs)

	result := &Result{
		Requirements:        reqs,
		Keywords:            keywords,
		ImplementationPlans: make([]*artifact.ImplementationPlan, 0, len(t.Developers)),
		SourceCode:          make([]*artifact.SourceCode, 0, len(t.Developers)),
		UnitTests:           make([]*artifact.UnitTests, 0, len(t.Developers)),
		TestPlans:           make([]*artifact.TestPlan, 0, len(t.Testers)),
		TestScripts:         make([]*artifact.TestScript, 0, len(t.Testers)),
		TestSummaries:       make([]*artifact.TestSummary, 0, len(t.Testers)),
		Logs:                []TranscriptEntry{},
		FollowUps:           []FollowUp{},
		iteration:           id,
	}
	logger.Info("iteration started", "source", source, "requirements", len(reqs), "keywords", len(keywords))
	t.logbook.Info("iteration %s: started from %s with %d requirements", id, source, len(reqs))
	result.log(speakerScrumMaster, fmt.Sprintf("Share requirements sourced from %s.", source), reqs)

	if err := checkpoint(ctx, "architecture"); err != nil {
		return nil, err
	}
	result.Architecture = t.Architect.ProduceArchitecture(reqs, keywords)
	result.log(t.Architect.Name(), promptArchitecture, result.Architecture)
	logger.Info("architecture decided", "pattern", result.Architecture.Pattern, "quality", result.Architecture.CriticalQuality)
	t.logbook.Info("iteration %s: %s chose %s emphasising %s", id, t.Architect.Name(),
		result.Architecture.Pattern, result.Architecture.CriticalQuality)

	for _, dev := range t.Developers {
		if err := checkpoint(ctx, "development"); err != nil {
			return nil, err
		}
		plan := dev.CreateImplementationPlan(reqs, result.Architecture)
		dev.ReviewCode(plan)
		result.ImplementationPlans = append(result.ImplementationPlans, plan)
		result.log(dev.Name(), promptImplementation, plan)

		code := dev.ProduceSourceCode(reqs, result.Architecture)
		result.SourceCode = append(result.SourceCode, code)
		result.log(dev.Name(), promptSourceCode, code)

		tests := dev.ProduceUnitTests(reqs, result.Architecture)
		result.UnitTests = append(result.UnitTests, tests)
		result.log(dev.Name(), promptUnitTests, tests)

		logger.Debug("development artifacts ready", "developer", dev.Name(), "tasks", len(plan.Tasks), "module", code.Module)
		t.logbook.Info("iteration %s: %s delivered %s and %s", id, dev.Name(), code.Module, tests.Module)
	}

	for _, tester := range t.Testers {
		if err := checkpoint(ctx, "testing"); err != nil {
			return nil, err
		}
		plan := tester.CreateTestPlan(reqs, result.Architecture)
		result.TestPlans = append(result.TestPlans, plan)
		result.log(tester.Name(), promptTestPlan, plan)

		script := tester.CreateTestScript(reqs, result.Architecture)
		result.TestScripts = append(result.TestScripts, script)
		result.log(tester.Name(), promptTestScript, script)

		summary := tester.SummarizeTesting(reqs, result.Architecture)
		result.TestSummaries = append(result.TestSummaries, summary)
		result.log(tester.Name(), promptTestSummary, summary)

		logger.Debug("testing artifacts ready", "tester", tester.Name(), "steps", len(script.Steps))
		t.logbook.Info("iteration %s: %s planned %d tests", id, tester.Name(), len(plan.Tests))
	}

	if err := checkpoint(ctx, "assembly"); err != nil {
		return nil, err
	}
	result.BestPractices = practices.All()
	result.QualityAssurance = QualityAssurance{CodeReview: codeReviewGuardrail, Testing: testingGuardrail}
	result.Providers = t.providerSnapshot()

	logger.Info("iteration finished", "pattern", result.Architecture.Pattern, "log_entries", len(result.Logs))
	t.logbook.Info("iteration %s: finished with %d transcript entries", id, len(result.Logs))
	return result, nil
}

func (t *Team) providerSnapshot() ProviderAssignments {
	snapshot := ProviderAssignments{
		Architect:  t.Architect.Provider(),
		Developers: make([]provider.Descriptor, 0, len(t.Developers)),
		Testers:    make([]provider.Descriptor, 0, len(t.Testers)),
	}
	for _, dev := range t.Developers {
		snapshot.Developers = append(snapshot.Developers, dev.Provider())
	}
	for _, tester := range t.Testers {
		snapshot.Testers = append(snapshot.Testers, tester.Provider())
	}
	return snapshot
}

func (t *Team) log(ctx context.Context) *charmlog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return logging.FromContext(ctx)
}

func checkpoint(ctx context.Context, stage string) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("team: %s stage: %w", stage, err)
	}
	return nil
}
