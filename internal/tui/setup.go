package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/kingrea/scrumteam/internal/provider"
	"github.com/kingrea/scrumteam/internal/team"
)

// ProviderFormData holds the provider overrides entered during setup. Each
// field takes a single spec ("openai:gpt-4o") or a comma separated list
// with one spec per member; empty keeps the roster's providers.
type ProviderFormData struct {
	Architect  string
	Developers string
	Testers    string
}

// NewProviderForm creates the provider setup form.
func NewProviderForm(data *ProviderFormData) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewNote().
			Title("LLM providers").
			Description("Use provider[:model], e.g. openai:gpt-4o or ollama:llama3.\nSeparate several specs with commas to assign one per member."),
		specInput("Architect", "Provider for the architect", &data.Architect),
		specInput("Developers", "One spec for every developer, or one per developer", &data.Developers),
		specInput("Testers", "One spec for every tester, or one per tester", &data.Testers),
	))
}

func specInput(title, description string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Description(description).
		Placeholder("keep roster default").
		Value(value).
		Validate(ValidateSpecList)
}

// ValidateSpecList checks that every comma separated spec in text coerces
// to a provider descriptor. Empty text is valid.
func ValidateSpecList(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for i, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return fmt.Errorf("entry %d is empty", i+1)
		}
		desc, err := provider.Coerce(part)
		if err == nil {
			err = desc.Validate()
		}
		if err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return nil
}

// Overrides converts the form answers; blank answers stay unset.
func (d ProviderFormData) Overrides() team.Overrides {
	return team.Overrides{
		Architect:  team.ParseOverride(d.Architect),
		Developers: team.ParseOverride(d.Developers),
		Testers:    team.ParseOverride(d.Testers),
	}
}
