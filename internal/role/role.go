// Package role implements the three team roles. Each role produces
// artifacts from the shared requirement list and acknowledges follow-up
// instructions with a fixed, role-flavoured response.
package role

import (
	"fmt"
	"strings"

	"github.com/kingrea/scrumteam/internal/provider"
)

// Discipline is one of the three role groups of a team.
type Discipline string

const (
	Architecture Discipline = "architecture"
	Development  Discipline = "development"
	Testing      Discipline = "testing"
)

// Role is implemented by Architect, Developer and Tester.
type Role interface {
	Name() string
	Discipline() Discipline
	FocusAreas() []string
	Responsibilities() []string
	Provider() provider.Descriptor
	SetProvider(spec any) error
	Summarize() string
	RespondToInstruction(instruction string) string
}

// Profile is the identity shared by every role.
type Profile struct {
	Name             string
	FocusAreas       []string
	Responsibilities []string
	Provider         provider.Descriptor
}

// DefaultProvider is assigned when a profile names none.
var DefaultProvider = provider.Descriptor{Provider: provider.OpenAI, Deployment: provider.DeploymentCloud}

// Base carries the profile and the behaviour common to all roles.
type Base struct {
	name             string
	focusAreas       []string
	responsibilities []string
	provider         provider.Descriptor
}

func newBase(p Profile) Base {
	desc := p.Provider
	if desc.Provider == "" {
		desc = DefaultProvider
	}
	return Base{
		name:             p.Name,
		focusAreas:       append([]string{}, p.FocusAreas...),
		responsibilities: append([]string{}, p.Responsibilities...),
		provider:         desc,
	}
}

func (b *Base) Name() string { return b.name }

func (b *Base) FocusAreas() []string { return append([]string{}, b.focusAreas...) }

func (b *Base) Responsibilities() []string { return append([]string{}, b.responsibilities...) }

func (b *Base) Provider() provider.Descriptor { return b.provider }

// SetProvider replaces the provider with the coerced spec. Any provider
// name is accepted.
func (b *Base) SetProvider(spec any) error {
	desc, err := provider.Coerce(spec)
	if err != nil {
		return fmt.Errorf("role %s: %w", b.name, err)
	}
	b.provider = desc
	return nil
}

// Summarize returns the role name and its focus areas.
func (b *Base) Summarize() string {
	return fmt.Sprintf("%s: focus on %s", b.name, strings.Join(b.focusAreas, ", "))
}

// RespondToInstruction is the generic acknowledgement; each discipline
// overrides it with its own closing clause.
func (b *Base) RespondToInstruction(instruction string) string {
	return fmt.Sprintf("%s acknowledges instruction '%s' and will incorporate it into upcoming work.", b.name, instruction)
}
