package team

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/scrumteam/internal/artifact"
	"github.com/kingrea/scrumteam/internal/logbook"
	"github.com/kingrea/scrumteam/internal/provider"
	"github.com/kingrea/scrumteam/internal/requirements"
	"github.com/kingrea/scrumteam/internal/role"
	"github.com/kingrea/scrumteam/internal/roster"
)

const sampleRequirements = `# Platform goals
- Real-time telemetry ingestion
- Secure data storage
* Responsive mobile app
`

func newTestTeam(t *testing.T, opts ...Option) (*Team, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/work/requirements.md", []byte(sampleRequirements), 0o644))
	seq := 0
	base := []Option{
		WithFs(fsys),
		WithIDGenerator(func() string {
			seq++
			return "iter-" + string(rune('0'+seq))
		}),
	}
	return Default(append(base, opts...)...), fsys
}

func TestRunIterationProducesAlignedArtifacts(t *testing.T) {
	team, _ := newTestTeam(t)
	result, err := team.RunIteration(context.Background(), "/work/requirements.md")
	require.NoError(t, err)

	assert.Equal(t, []string{"Platform goals", "Real-time telemetry ingestion", "Secure data storage", "Responsive mobile app"}, result.Requirements)
	assert.Equal(t, requirements.ExtractKeywords(result.Requirements), result.Keywords)
	assert.Equal(t, artifact.PatternDataLakehouse, result.Architecture.Pattern)

	require.Len(t, result.ImplementationPlans, len(team.Developers))
	require.Len(t, result.SourceCode, len(team.Developers))
	require.Len(t, result.UnitTests, len(team.Developers))
	require.Len(t, result.TestPlans, len(team.Testers))
	require.Len(t, result.TestScripts, len(team.Testers))
	require.Len(t, result.TestSummaries, len(team.Testers))
	for i, dev := range team.Developers {
		assert.Equal(t, dev.Name(), result.SourceCode[i].Owner)
		assert.Len(t, result.ImplementationPlans[i].ReviewNotes, 3)
		assert.Empty(t, result.ImplementationPlans[i].FollowUpActions)
	}
	for i, tester := range team.Testers {
		assert.Equal(t, tester.Name(), result.TestScripts[i].Owner)
	}

	assert.Len(t, result.BestPractices, 13)
	assert.Equal(t, "All developer outputs include mandatory peer review checklists.", result.QualityAssurance.CodeReview)
	assert.Equal(t, "openai", result.Providers.Architect.Provider)
	assert.Len(t, result.Providers.Developers, 3)
	assert.Equal(t, "iter-1", result.IterationID())
	assert.Empty(t, result.FollowUps)
}

func TestRunIterationTranscript(t *testing.T) {
	team, _ := newTestTeam(t)
	result, err := team.RunIteration(context.Background(), "/work/requirements.md")
	require.NoError(t, err)

	require.Len(t, result.Logs, 2+3*len(team.Developers)+3*len(team.Testers))
	first := result.Logs[0]
	assert.Equal(t, "Scrum Master", first.Speaker)
	assert.Equal(t, "Share requirements sourced from /work/requirements.md.", first.Prompt)
	assert.Equal(t, strings.Join([]string{
		"[",
		`  "Platform goals",`,
		`  "Real-time telemetry ingestion",`,
		`  "Secure data storage",`,
		`  "Responsive mobile app"`,
		"]",
	}, "\n"), first.Response)

	arch := result.Logs[1]
	assert.Equal(t, "Architect", arch.Speaker)
	assert.Equal(t, "Provide architecture guidance for the upcoming sprint.", arch.Prompt)
	assert.True(t, strings.HasPrefix(arch.Response, "{\n  \"adr_process\": "), arch.Response)
	assert.Equal(t, "data-lakehouse", gjson.Get(arch.Response, "pattern").String())

	dev := result.Logs[2]
	assert.Equal(t, "Developer A", dev.Speaker)
	assert.Equal(t, "Draft implementation plan aligned with the architecture and requirements.", dev.Prompt)
	assert.Equal(t, int64(3), gjson.Get(dev.Response, "review_notes.#").Int())
	assert.Equal(t, "Produce source code scaffold that realises the implementation plan.", result.Logs[3].Prompt)
	assert.Equal(t, "Deliver unit tests paired with the implementation work.", result.Logs[4].Prompt)

	firstTester := 2 + 3*len(team.Developers)
	assert.Equal(t, "Tester A", result.Logs[firstTester].Speaker)
	assert.Equal(t, "Outline validation strategy covering functional and non-functional needs.", result.Logs[firstTester].Prompt)
	assert.Equal(t, "Provide executable test scripts supporting the plan.", result.Logs[firstTester+1].Prompt)
	assert.Equal(t, "Summarise anticipated testing outcomes and risks.", result.Logs[firstTester+2].Prompt)
}

func TestRealtimeWinsArchitecture(t *testing.T) {
	team, _ := newTestTeam(t)
	result, err := team.RunIterationFromRequirements(context.Background(), "inline",
		[]string{"Realtime dashboards", "Scalable analytics pipeline", "Data security"})
	require.NoError(t, err)
	assert.Equal(t, artifact.PatternEventDriven, result.Architecture.Pattern)
	assert.Equal(t, artifact.QualitySecurity, result.Architecture.CriticalQuality)
}

func TestRunIterationErrors(t *testing.T) {
	team, fsys := newTestTeam(t)
	require.NoError(t, afero.WriteFile(fsys, "/work/blank.md", []byte("# \n - \n\n***\n"), 0o644))

	_, err := team.RunIteration(context.Background(), "/work/blank.md")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = team.RunIteration(context.Background(), "/work/missing.md")
	assert.ErrorIs(t, err, requirements.ErrInputNotFound)

	_, err = team.RunIterationFromRequirements(context.Background(), "inline", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = team.RunIteration(ctx, "/work/requirements.md")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigureProviders(t *testing.T) {
	team, _ := newTestTeam(t)
	err := team.ConfigureProviders(Overrides{
		Architect:  Broadcast("openai:gpt-4o"),
		Developers: PerMember("openai:gpt-4o-mini", "ollama:llama3", map[string]any{"provider": "ollama"}),
		Testers:    Broadcast("ollama:llama3"),
	})
	require.NoError(t, err)

	assert.Equal(t, provider.Descriptor{Provider: "openai", Deployment: "cloud", Model: "gpt-4o"}, team.Architect.Provider())
	assert.Equal(t, provider.Descriptor{Provider: "openai", Deployment: "cloud", Model: "gpt-4o-mini"}, team.Developers[0].Provider())
	assert.Equal(t, provider.Descriptor{Provider: "ollama", Deployment: "local", Model: "llama3"}, team.Developers[1].Provider())
	assert.Equal(t, provider.Descriptor{Provider: "ollama", Deployment: "local"}, team.Developers[2].Provider())
	for _, tester := range team.Testers {
		assert.Equal(t, provider.Descriptor{Provider: "ollama", Deployment: "local", Model: "llama3"}, tester.Provider())
	}

	result, err := team.RunIterationFromRequirements(context.Background(), "inline", []string{"Login"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", result.Providers.Architect.Model)
	assert.True(t, result.Providers.Testers[2].IsLocal())
}

func TestConfigureProvidersIsAllOrNothing(t *testing.T) {
	team, _ := newTestTeam(t)
	before := make([]provider.Descriptor, 0)
	for _, r := range team.Roles() {
		before = append(before, r.Provider())
	}
	snapshot := func() []provider.Descriptor {
		out := make([]provider.Descriptor, 0)
		for _, r := range team.Roles() {
			out = append(out, r.Provider())
		}
		return out
	}

	err := team.ConfigureProviders(Overrides{
		Architect:  Broadcast("ollama:llama3"),
		Developers: PerMember("openai:gpt-4o-mini"),
	})
	var mismatch *LengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, role.Development, mismatch.Discipline)
	assert.Equal(t, 3, mismatch.Want)
	assert.Equal(t, 1, mismatch.Got)
	assert.Equal(t, before, snapshot())

	err = team.ConfigureProviders(Overrides{
		Architect: Broadcast("ollama:llama3"),
		Testers:   PerMember("openai", 42, "ollama"),
	})
	var unsupported *provider.UnsupportedSpecError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, before, snapshot())

	err = team.ConfigureProviders(Overrides{Testers: Broadcast(map[string]any{"model": "x"})})
	var invalid *provider.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, before, snapshot())
}

func TestDefaultTeamsAreIndependent(t *testing.T) {
	first := Default()
	second := Default()
	require.NoError(t, first.ConfigureProviders(Overrides{Developers: Broadcast("ollama:llama3")}))
	assert.Equal(t, "gpt-4o-mini", second.Developers[0].Provider().Model)
	assert.NotSame(t, first.Architect, second.Architect)
}

func TestOverrideYAMLAndParse(t *testing.T) {
	var o Overrides
	doc := "architect: openai:gpt-4o\ndevelopers:\n  - openai:gpt-4o-mini\n  - {provider: ollama, model: llama3}\n  - ollama\ntesters: {name: ollama}\n"
	require.NoError(t, yaml.Unmarshal([]byte(doc), &o))
	assert.False(t, o.Architect.IsPerMember())
	assert.True(t, o.Developers.IsPerMember())
	assert.Equal(t, 3, o.Developers.Len())
	assert.False(t, o.Testers.IsPerMember())

	team := Default()
	require.NoError(t, team.ConfigureProviders(o))
	assert.Equal(t, "llama3", team.Developers[1].Provider().Model)
	assert.True(t, team.Testers[0].Provider().IsLocal())

	assert.Nil(t, ParseOverride("  "))
	assert.False(t, ParseOverride("ollama:llama3").IsPerMember())
	list := ParseOverride("openai, ollama ,local:ollama")
	assert.True(t, list.IsPerMember())
	assert.Equal(t, 3, list.Len())

	merged := Overrides{Architect: Broadcast("openai")}.Merge(Overrides{Testers: Broadcast("ollama")})
	assert.NotNil(t, merged.Architect)
	assert.NotNil(t, merged.Testers)
	assert.True(t, Overrides{}.IsZero())
}

func TestHandleFollowUpAccumulates(t *testing.T) {
	team, _ := newTestTeam(t)
	result, err := team.RunIteration(context.Background(), "/work/requirements.md")
	require.NoError(t, err)
	logsBefore := len(result.Logs)

	first := team.HandleFollowUp(result, "Improve accessibility")
	assert.Equal(t, "Improve accessibility", first.Instruction)
	assert.Equal(t,
		"Architect will update architecture guardrails to address: Improve accessibility. Any new decisions will be captured through ADRs for team visibility.",
		first.Architecture)
	assert.Len(t, first.Development, len(team.Developers))
	assert.Len(t, first.Testing, len(team.Testers))

	second := team.HandleFollowUp(result, "Add audit logging")
	require.Len(t, result.FollowUps, 2)
	assert.Equal(t, first, result.FollowUps[0])
	assert.Equal(t, second, result.FollowUps[1])

	for i, plan := range result.ImplementationPlans {
		require.Len(t, plan.FollowUpActions, 2)
		assert.Equal(t, first.Development[i], plan.FollowUpActions[0])
		assert.Equal(t, second.Development[i], plan.FollowUpActions[1])
		assert.Len(t, result.SourceCode[i].FollowUpNotes, 2)
		assert.Len(t, result.UnitTests[i].FollowUpNotes, 2)
		assert.Len(t, plan.ReviewNotes, 3)
	}
	for i, plan := range result.TestPlans {
		require.Len(t, plan.FollowUpActions, 2)
		assert.Equal(t, first.Testing[i], plan.FollowUpActions[0])
		assert.Len(t, result.TestScripts[i].FollowUpNotes, 2)
		assert.Len(t, result.TestSummaries[i].FollowUpNotes, 2)
	}

	perFollowUp := 2 + len(team.Developers) + len(team.Testers)
	require.Len(t, result.Logs, logsBefore+2*perFollowUp)
	po := result.Logs[logsBefore]
	assert.Equal(t, "Product Owner", po.Speaker)
	assert.Equal(t, "Provide additional instruction after sprint review.", po.Prompt)
	assert.Equal(t, "Improve accessibility", po.Response)
	assert.Equal(t, "Acknowledge follow-up instruction and adapt architecture guidance.", result.Logs[logsBefore+1].Prompt)
	assert.Equal(t, "Adjust implementation approach based on new instruction.", result.Logs[logsBefore+2].Prompt)
	assert.Equal(t, "Adapt validation strategy for follow-up instruction.", result.Logs[logsBefore+2+len(team.Developers)].Prompt)
}

func TestHandleFollowUpOnShortResult(t *testing.T) {
	team := Default()
	result := &Result{}
	fu := team.HandleFollowUp(result, "Ship it")
	assert.Len(t, fu.Development, 3)
	assert.Len(t, result.FollowUps, 1)
	assert.Len(t, result.Logs, 2+3+3)
}

func TestHandleFollowUpNilResult(t *testing.T) {
	team := Default()
	var fu FollowUp
	require.NotPanics(t, func() { fu = team.HandleFollowUp(nil, "Ship it") })
	assert.Equal(t, FollowUp{}, fu)
}

func TestSnapshotIsDetached(t *testing.T) {
	team, _ := newTestTeam(t)
	result, err := team.RunIteration(context.Background(), "/work/requirements.md")
	require.NoError(t, err)

	snap, err := result.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, result.IterationID(), snap.IterationID())

	team.HandleFollowUp(result, "Improve accessibility")
	assert.Empty(t, snap.FollowUps)
	assert.Empty(t, snap.ImplementationPlans[0].FollowUpActions)
	assert.Empty(t, snap.SourceCode[0].FollowUpNotes)
	assert.Less(t, len(snap.Logs), len(result.Logs))
}

func TestResultJSONRoundTrip(t *testing.T) {
	team, _ := newTestTeam(t)
	result, err := team.RunIteration(context.Background(), "/work/requirements.md")
	require.NoError(t, err)
	team.HandleFollowUp(result, "Improve accessibility")

	data, err := result.MarshalIndent()
	require.NoError(t, err)
	doc := string(data)

	assert.Equal(t, int64(4), gjson.Get(doc, "requirements.#").Int())
	assert.Equal(t, "data-lakehouse", gjson.Get(doc, "architecture.pattern").String())
	assert.Equal(t, int64(1), gjson.Get(doc, "follow_ups.#").Int())
	assert.Equal(t, "cloud", gjson.Get(doc, "llm_providers.architect.deployment").String())
	assert.True(t, gjson.Get(doc, "quality_assurance.testing").Exists())
	assert.False(t, gjson.Get(doc, "adr_decisions").Exists())
	assert.True(t, gjson.Get(doc, "implementation_plans.0.follow_up_actions").IsArray())

	parsed, err := ParseResult(data)
	require.NoError(t, err)
	assert.Equal(t, result.Requirements, parsed.Requirements)
	assert.Equal(t, result.Architecture.Pattern, parsed.Architecture.Pattern)
	assert.Len(t, parsed.FollowUps, 1)

	team.HandleFollowUp(parsed, "Second pass")
	assert.Len(t, parsed.FollowUps, 2)
	assert.Len(t, parsed.ImplementationPlans[0].FollowUpActions, 2)

	_, err = ParseResult([]byte("{"))
	assert.Error(t, err)
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	team, _ := newTestTeam(t)
	result, err := team.RunIterationFromRequirements(context.Background(), "inline", []string{"x"})
	require.NoError(t, err)
	data, err := result.MarshalIndent()
	require.NoError(t, err)
	assert.Equal(t, "[]", gjson.GetBytes(data, "keywords").Raw)
	assert.Equal(t, "[]", gjson.GetBytes(data, "follow_ups").Raw)
	assert.Equal(t, "[]", gjson.GetBytes(data, "test_scripts.0.follow_up_notes").Raw)
}

func TestLogbookRecordsStages(t *testing.T) {
	fsys := afero.NewMemMapFs()
	book, err := logbook.New("/logs/sprints.log", logbook.WithFs(fsys))
	require.NoError(t, err)
	team, _ := newTestTeam(t, WithLogbook(book))

	result, err := team.RunIteration(context.Background(), "/work/requirements.md")
	require.NoError(t, err)
	team.HandleFollowUp(result, "Tighten SLAs")

	lines, total := book.Tail(100)
	assert.Equal(t, 1+1+3+3+1+1, total)
	assert.Contains(t, lines[0], "iteration iter-1: started from /work/requirements.md with 4 requirements")
	assert.Contains(t, lines[1], "Architect chose data-lakehouse emphasising reliability")
	assert.Contains(t, lines[len(lines)-1], "follow-up 1 applied: Tighten SLAs")

	_, err = team.RunIteration(context.Background(), "/work/nope.md")
	require.Error(t, err)
	lines, _ = book.Tail(1)
	assert.Contains(t, lines[0], "ERROR")
}

func TestExportWritesBundle(t *testing.T) {
	team, fsys := newTestTeam(t)
	result, err := team.RunIteration(context.Background(), "/work/requirements.md")
	require.NoError(t, err)
	team.HandleFollowUp(result, "Improve accessibility")

	refs, err := team.Export(result, "/out")
	require.NoError(t, err)
	// 2 ADRs, 3 plans, 3 sources, 3 test suites, 3 testers x 3 documents.
	assert.Len(t, refs, 2+3+3+3+9)

	store := artifact.NewStore("/out", artifact.WithFs(fsys))
	for _, ref := range refs {
		check, err := store.Check(ref)
		require.NoError(t, err, ref.ID)
		assert.Equal(t, artifact.StateReady, check.State, ref.ID)
		if ref.Kind == artifact.KindDocument {
			assert.Equal(t, "iter-1", check.Metadata.Iteration)
			assert.Equal(t, "data-lakehouse", check.Metadata.Notes["pattern"])
		}
	}

	adr, err := afero.ReadFile(fsys, "/out/adr/ADR-001.md")
	require.NoError(t, err)
	assert.Contains(t, string(adr), "# ADR-001: Adopt data-lakehouse architecture")
	assert.Contains(t, string(adr), "## Decision")

	plan, err := afero.ReadFile(fsys, "/out/plans/developer-a.md")
	require.NoError(t, err)
	assert.Contains(t, string(plan), "## Follow-up actions\n\n- Developer A will refine implementation tasks")

	src, err := afero.ReadFile(fsys, "/out/src/developer_a.py")
	require.NoError(t, err)
	assert.Equal(t, result.SourceCode[0].Code+"\n", string(src))

	exists, err := afero.Exists(fsys, "/out/qa/tester-c-summary.md")
	require.NoError(t, err)
	assert.True(t, exists)

	again, err := team.Export(result, "/out")
	require.NoError(t, err)
	assert.Len(t, again, len(refs))
}

func TestExportWithoutIterationID(t *testing.T) {
	team, fsys := newTestTeam(t)
	result, err := team.RunIterationFromRequirements(context.Background(), "inline", []string{"Login"})
	require.NoError(t, err)
	data, err := result.MarshalIndent()
	require.NoError(t, err)
	parsed, err := ParseResult(data)
	require.NoError(t, err)
	assert.Empty(t, parsed.IterationID())

	refs, err := team.Export(parsed, "/again")
	require.NoError(t, err)
	check, err := artifact.NewStore("/again", artifact.WithFs(fsys)).Check(refs[0])
	require.NoError(t, err)
	assert.Equal(t, "iter-2", check.Metadata.Iteration)
}

func TestExportStaysUnderRoot(t *testing.T) {
	// Roster validation rejects such names; the store must hold even when
	// a team is assembled without it.
	r := roster.Default()
	r.Developers[0].Name = "../../escaped"
	team, err := FromRoster(r, nil, WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)
	result, err := team.RunIterationFromRequirements(context.Background(), "inline", []string{"Login"})
	require.NoError(t, err)

	_, err = team.Export(result, "/proj/exports")
	require.ErrorIs(t, err, artifact.ErrOutsideRoot)
	for _, path := range []string{"/proj/escaped.md", "/proj/escaped.py", "/escaped.py"} {
		exists, _ := afero.Exists(team.fs, path)
		assert.False(t, exists, path)
	}
}

func TestFormatPayload(t *testing.T) {
	assert.Equal(t, "plain", formatPayload("plain"))
	assert.Equal(t, "{\n  \"a\": \"<b>\",\n  \"b\": []\n}", formatPayload(map[string]any{"b": []string{}, "a": "<b>"}))
	assert.Equal(t, "[]", formatPayload([]string{}))
}
