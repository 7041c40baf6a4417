package role

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const adrContextTemplate = `Requirements emphasise {{ .Requirements | join ", " | default "stakeholder goals" }} which align with the selected pattern.`

const sourceCodeTemplate = `"""Module owned by {{ .Owner }} implementing the {{ .Pattern }} architecture decisions."""

from dataclasses import dataclass

@dataclass
class FeatureContract:
    requirement: str
    acceptance_criteria: list[str]

def implement_feature(requirement: str) -> FeatureContract:
    """Scaffold function produced during the sprint planning stage."""
    return FeatureContract(
        requirement=requirement,
        acceptance_criteria=[
{{- range .Requirements }}
            "{{ . }}",
{{- end }}
        ],
    )

__all__ = ["FeatureContract", "implement_feature"]`

const unitTestTemplate = `import pytest

from project import features

@pytest.mark.parametrize("requirement", [
{{- range .Requirements }}
    "{{ . }}",
{{- end }}
])
def test_feature_contract(requirement):
    contract = features.implement_feature(requirement)
    assert requirement in contract.acceptance_criteria
    assert contract.requirement == requirement`

const moduleNameTemplate = `{{ .Prefix }}{{ .Owner | lower | replace " " "_" }}.py`

var templates = template.Must(
	template.New("scaffolds").Option("missingkey=error").Funcs(sprig.TxtFuncMap()).Parse(""),
)

func init() {
	for name, text := range map[string]string{
		"adr-context": adrContextTemplate,
		"source-code": sourceCodeTemplate,
		"unit-tests":  unitTestTemplate,
		"module-name": moduleNameTemplate,
	} {
		template.Must(templates.New(name).Parse(text))
	}
}

type scaffoldData struct {
	Owner        string
	Pattern      string
	Prefix       string
	Requirements []string
}

func render(name string, data scaffoldData) string {
	if data.Requirements == nil {
		data.Requirements = []string{}
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		// Templates are compiled in; a failure here is a programming error.
		panic(fmt.Sprintf("role: render %s: %v", name, err))
	}
	return buf.String()
}
