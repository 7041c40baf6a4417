package team

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/kingrea/scrumteam/internal/artifact"
)

const documentTemplate = `# {{ .Title }}
{{ range .Sections }}
## {{ .Heading }}
{{ with .Text | trim }}
{{ . }}
{{ end }}
{{- if .Items }}
{{ range .Items }}- {{ . }}
{{ end }}
{{- else if not .Text }}
_None recorded._
{{ end }}
{{- end }}`

var documents = template.Must(template.New("document").Funcs(sprig.TxtFuncMap()).Parse(documentTemplate))

type section struct {
	Heading string
	Text    string
	Items   []string
}

type document struct {
	Title    string
	Sections []section
}

func (d document) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := documents.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("team: render %s: %w", d.Title, err)
	}
	return buf.Bytes(), nil
}

type exportEntry struct {
	ref  artifact.Ref
	body []byte
}

// Export writes the result's artifacts below dir: ADRs, implementation
// plans, scaffold sources and tests, and tester documents. Files from an
// earlier export with the same names are replaced. Extra store options
// follow the team's filesystem.
func (t *Team) Export(result *Result, dir string, opts ...artifact.StoreOption) ([]artifact.Ref, error) {
	iteration := result.iteration
	if iteration == "" {
		iteration = t.newID()
	}
	store := artifact.NewStore(dir, append([]artifact.StoreOption{artifact.WithFs(t.fs)}, opts...)...)

	entries, err := exportEntries(result)
	if err != nil {
		return nil, err
	}
	refs := make([]artifact.Ref, 0, len(entries))
	for _, entry := range entries {
		meta := artifact.Metadata{
			Iteration: iteration,
			Source:    "scrumteam",
			Notes: map[string]string{
				"pattern":          result.Architecture.Pattern,
				"critical_quality": result.Architecture.CriticalQuality,
			},
		}
		if err := store.Write(entry.ref, entry.body, meta); err != nil {
			return refs, fmt.Errorf("team: export %s: %w", entry.ref.ID, err)
		}
		refs = append(refs, entry.ref)
	}
	t.log(context.Background()).Info("exported artifacts", "dir", dir, "count", len(refs), "iteration", iteration)
	t.logbook.Info("iteration %s: exported %d artifacts to %s", iteration, len(refs), dir)
	return refs, nil
}

func exportEntries(result *Result) ([]exportEntry, error) {
	var entries []exportEntry
	add := func(ref artifact.Ref, doc document) error {
		body, err := doc.render()
		if err != nil {
			return err
		}
		entries = append(entries, exportEntry{ref: ref, body: body})
		return nil
	}

	arch := result.Architecture
	for _, adr := range arch.ADRRecords {
		ref := artifact.DocumentRef(adr.ID, adr.Title, "architect", path.Join("adr", adr.ID+".md"))
		err := add(ref, document{
			Title: adr.ID + ": " + adr.Title,
			Sections: []section{
				{Heading: "Status", Text: adr.Status},
				{Heading: "Context", Text: adr.Context},
				{Heading: "Decision", Text: adr.Decision},
				{Heading: "Consequences", Text: adr.Consequences},
			},
		})
		if err != nil {
			return nil, err
		}
	}

	for i, plan := range result.ImplementationPlans {
		if plan == nil {
			continue
		}
		owner := ownerAt(i, result.SourceCode)
		slug := slugify(owner)
		ref := artifact.DocumentRef("plan-"+slug, "Implementation plan", owner, path.Join("plans", slug+".md"))
		err := add(ref, document{
			Title: "Implementation plan: " + owner,
			Sections: []section{
				{Heading: "Tasks", Items: plan.Tasks},
				{Heading: "Code review", Items: plan.CodeReview},
				{Heading: "Review notes", Items: plan.ReviewNotes},
				{Heading: "Follow-up actions", Items: plan.FollowUpActions},
			},
		})
		if err != nil {
			return nil, err
		}
	}

	for _, code := range result.SourceCode {
		if code == nil || code.Module == "" {
			continue
		}
		ref := artifact.SourceRef("src-"+code.Module, code.Summary, code.Owner, path.Join("src", code.Module))
		entries = append(entries, exportEntry{ref: ref, body: []byte(code.Code + "\n")})
	}
	for _, tests := range result.UnitTests {
		if tests == nil || tests.Module == "" {
			continue
		}
		ref := artifact.SourceRef("tests-"+tests.Module, tests.Summary, tests.Owner, path.Join("tests", tests.Module))
		entries = append(entries, exportEntry{ref: ref, body: []byte(tests.Code + "\n")})
	}

	for i, plan := range result.TestPlans {
		owner := testerAt(i, result)
		slug := slugify(owner)
		if plan != nil {
			err := add(artifact.DocumentRef("qa-"+slug+"-plan", "Test plan", owner, path.Join("qa", slug+"-plan.md")), document{
				Title: "Test plan: " + owner,
				Sections: []section{
					{Heading: "Strategy", Items: plan.Strategy},
					{Heading: "Tests", Items: plan.Tests},
					{Heading: "Tooling", Items: plan.Tooling},
					{Heading: "Follow-up actions", Items: plan.FollowUpActions},
				},
			})
			if err != nil {
				return nil, err
			}
		}
		if i < len(result.TestScripts) && result.TestScripts[i] != nil {
			script := result.TestScripts[i]
			err := add(artifact.DocumentRef("qa-"+slug+"-script", "Test script", owner, path.Join("qa", slug+"-script.md")), document{
				Title: "Test script: " + owner,
				Sections: []section{
					{Heading: "Focus", Items: script.Focus},
					{Heading: "Steps", Items: script.Steps},
					{Heading: "Tooling", Items: script.Tooling},
					{Heading: "Follow-up notes", Items: script.FollowUpNotes},
				},
			})
			if err != nil {
				return nil, err
			}
		}
		if i < len(result.TestSummaries) && result.TestSummaries[i] != nil {
			summary := result.TestSummaries[i]
			err := add(artifact.DocumentRef("qa-"+slug+"-summary", "Test summary", owner, path.Join("qa", slug+"-summary.md")), document{
				Title: "Test summary: " + owner,
				Sections: []section{
					{Heading: "Coverage", Text: summary.Coverage},
					{Heading: "Risks", Text: summary.Risks},
					{Heading: "Next steps", Text: summary.NextSteps},
					{Heading: "Follow-up notes", Items: summary.FollowUpNotes},
				},
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return entries, nil
}

func ownerAt(i int, code []*artifact.SourceCode) string {
	if i < len(code) && code[i] != nil && code[i].Owner != "" {
		return code[i].Owner
	}
	return fmt.Sprintf("Developer %d", i+1)
}

func testerAt(i int, result *Result) string {
	if i < len(result.TestScripts) && result.TestScripts[i] != nil && result.TestScripts[i].Owner != "" {
		return result.TestScripts[i].Owner
	}
	if i < len(result.TestSummaries) && result.TestSummaries[i] != nil && result.TestSummaries[i].Owner != "" {
		return result.TestSummaries[i].Owner
	}
	return fmt.Sprintf("Tester %d", i+1)
}

func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
