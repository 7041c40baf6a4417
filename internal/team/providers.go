package team

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/scrumteam/internal/provider"
	"github.com/kingrea/scrumteam/internal/role"
)

// Override is a provider assignment for one discipline: either one spec
// applied to every member, or one spec per member in order.
type Override struct {
	specs     []any
	perMember bool
}

// Broadcast assigns spec to every member of a discipline.
func Broadcast(spec any) *Override {
	return &Override{specs: []any{spec}}
}

// PerMember assigns specs positionally. The count must match the
// discipline's member count.
func PerMember(specs ...any) *Override {
	return &Override{specs: append([]any{}, specs...), perMember: true}
}

// ParseOverride reads the compact text form used by flags and environment
// variables: a comma-separated value is a per-member list, anything else a
// broadcast.
func ParseOverride(text string) *Override {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !strings.Contains(text, ",") {
		return Broadcast(text)
	}
	parts := strings.Split(text, ",")
	specs := make([]any, 0, len(parts))
	for _, part := range parts {
		specs = append(specs, strings.TrimSpace(part))
	}
	return PerMember(specs...)
}

// IsPerMember reports whether the override is a positional list.
func (o *Override) IsPerMember() bool {
	return o != nil && o.perMember
}

// Len returns the number of specs carried.
func (o *Override) Len() int {
	if o == nil {
		return 0
	}
	return len(o.specs)
}

// UnmarshalYAML reads a sequence as a per-member list and any other node as
// a broadcast spec.
func (o *Override) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var specs []provider.Spec
		if err := node.Decode(&specs); err != nil {
			return err
		}
		values := make([]any, len(specs))
		for i, spec := range specs {
			values[i] = spec
		}
		*o = Override{specs: values, perMember: true}
		return nil
	}
	var spec provider.Spec
	if err := node.Decode(&spec); err != nil {
		return err
	}
	*o = Override{specs: []any{spec}}
	return nil
}

// MarshalYAML writes the override back as a scalar/mapping or a sequence.
func (o Override) MarshalYAML() (any, error) {
	if o.perMember {
		return o.specs, nil
	}
	if len(o.specs) == 0 {
		return nil, nil
	}
	return o.specs[0], nil
}

// Overrides assigns providers per discipline. Nil entries leave the
// discipline untouched.
type Overrides struct {
	Architect  *Override `yaml:"architect,omitempty"`
	Developers *Override `yaml:"developers,omitempty"`
	Testers    *Override `yaml:"testers,omitempty"`
}

// IsZero reports whether no discipline is overridden.
func (o Overrides) IsZero() bool {
	return o.Architect == nil && o.Developers == nil && o.Testers == nil
}

// Merge returns o with every discipline set in other replacing its own.
func (o Overrides) Merge(other Overrides) Overrides {
	if other.Architect != nil {
		o.Architect = other.Architect
	}
	if other.Developers != nil {
		o.Developers = other.Developers
	}
	if other.Testers != nil {
		o.Testers = other.Testers
	}
	return o
}

// LengthMismatchError reports a per-member list whose length differs from
// the discipline's member count.
type LengthMismatchError struct {
	Discipline role.Discipline
	Want       int
	Got        int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("team: %s provider list has %d entries but the discipline has %d members",
		e.Discipline, e.Got, e.Want)
}

type assignment struct {
	member role.Role
	desc   provider.Descriptor
}

// ConfigureProviders applies overrides to the team. Every spec is coerced
// and every list length checked before any member changes, so a failing
// call leaves all members as they were.
func (t *Team) ConfigureProviders(o Overrides) error {
	var pending []assignment
	groups := []struct {
		discipline role.Discipline
		override   *Override
		members    []role.Role
	}{
		{role.Architecture, o.Architect, []role.Role{t.Architect}},
		{role.Development, o.Developers, developerRoles(t.Developers)},
		{role.Testing, o.Testers, testerRoles(t.Testers)},
	}
	for _, group := range groups {
		planned, err := plan(group.discipline, group.override, group.members)
		if err != nil {
			return err
		}
		pending = append(pending, planned...)
	}
	for _, a := range pending {
		if err := a.member.SetProvider(a.desc); err != nil {
			return err
		}
	}
	return nil
}

func plan(discipline role.Discipline, o *Override, members []role.Role) ([]assignment, error) {
	if o == nil {
		return nil, nil
	}
	if o.perMember && len(o.specs) != len(members) {
		return nil, &LengthMismatchError{Discipline: discipline, Want: len(members), Got: len(o.specs)}
	}
	if !o.perMember && len(o.specs) != 1 {
		return nil, fmt.Errorf("team: %s override carries no provider", discipline)
	}
	out := make([]assignment, 0, len(members))
	for i, member := range members {
		spec := o.specs[0]
		if o.perMember {
			spec = o.specs[i]
		}
		desc, err := provider.Coerce(spec)
		if err != nil {
			return nil, fmt.Errorf("team: %s provider for %s: %w", discipline, member.Name(), err)
		}
		out = append(out, assignment{member: member, desc: desc})
	}
	return out, nil
}

func developerRoles(devs []*role.Developer) []role.Role {
	out := make([]role.Role, len(devs))
	for i, d := range devs {
		out[i] = d
	}
	return out
}

func testerRoles(testers []*role.Tester) []role.Role {
	out := make([]role.Role, len(testers))
	for i, tester := range testers {
		out[i] = tester
	}
	return out
}
