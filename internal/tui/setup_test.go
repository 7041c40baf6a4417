package tui

import (
	"testing"

	"github.com/kingrea/scrumteam/internal/team"
)

func TestValidateSpecList(t *testing.T) {
	valid := []string{"", "  ", "openai", "openai:gpt-4o", "openai, ollama:llama3, local:ollama"}
	for _, text := range valid {
		if err := ValidateSpecList(text); err != nil {
			t.Fatalf("ValidateSpecList(%q) = %v, want nil", text, err)
		}
	}
	invalid := []string{":gpt-4o", "openai,,ollama", "openai, "}
	for _, text := range invalid {
		if err := ValidateSpecList(text); err == nil {
			t.Fatalf("ValidateSpecList(%q) should fail", text)
		}
	}
}

func TestProviderFormOverrides(t *testing.T) {
	data := ProviderFormData{
		Architect:  "ollama:llama3",
		Developers: "openai, openai:gpt-4o-mini, ollama",
	}
	overrides := data.Overrides()
	if overrides.Testers != nil {
		t.Fatalf("blank testers answer must stay unset")
	}
	tm := team.Default()
	if err := tm.ConfigureProviders(overrides); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if got := tm.Architect.Provider().Describe(); got != "ollama (local, model=llama3)" {
		t.Fatalf("architect = %s", got)
	}
	if got := tm.Developers[1].Provider().Model; got != "gpt-4o-mini" {
		t.Fatalf("developer 2 model = %q", got)
	}
	if got := tm.Testers[0].Provider().Model; got != "gpt-4o-mini" {
		t.Fatalf("tester kept roster default, got %q", got)
	}
	if NewProviderForm(&data) == nil {
		t.Fatalf("expected a form")
	}
}
