// Package team coordinates the architect, developers and testers through a
// sprint iteration and applies follow-up instructions to its result.
package team

import (
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/kingrea/scrumteam/internal/logbook"
	"github.com/kingrea/scrumteam/internal/practices"
	"github.com/kingrea/scrumteam/internal/role"
	"github.com/kingrea/scrumteam/internal/roster"
)

// Team is one architect, a list of developers and a list of testers. A
// team is not safe for concurrent use.
type Team struct {
	Architect  *role.Architect
	Developers []*role.Developer
	Testers    []*role.Tester
	Practices  []practices.Section

	fs      afero.Fs
	logger  *charmlog.Logger
	logbook *logbook.Logbook
	newID   func() string
}

// Option customizes a Team.
type Option func(*Team)

// WithLogger routes stage logging to logger.
func WithLogger(logger *charmlog.Logger) Option {
	return func(t *Team) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithLogbook appends a line per stage to book.
func WithLogbook(book *logbook.Logbook) Option {
	return func(t *Team) {
		t.logbook = book
	}
}

// WithFs swaps the filesystem requirement documents are read from.
func WithFs(fsys afero.Fs) Option {
	return func(t *Team) {
		if fsys != nil {
			t.fs = fsys
		}
	}
}

// WithIDGenerator overrides how iteration ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(t *Team) {
		if gen != nil {
			t.newID = gen
		}
	}
}

// New assembles a team from built members.
func New(members roster.Members, opts ...Option) *Team {
	t := &Team{
		Architect:  members.Architect,
		Developers: members.Developers,
		Testers:    members.Testers,
		Practices:  practices.Sections(),
		fs:         afero.NewOsFs(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromRoster builds the roster's roles through reg and assembles a team.
func FromRoster(r *roster.Roster, reg *role.Registry, opts ...Option) (*Team, error) {
	members, err := r.Build(reg)
	if err != nil {
		return nil, fmt.Errorf("team: %w", err)
	}
	return New(members, opts...), nil
}

// Default builds a fresh team from the built-in template. Teams never
// share role instances.
func Default(opts ...Option) *Team {
	t, err := FromRoster(roster.Default(), nil, opts...)
	if err != nil {
		panic(fmt.Sprintf("team: built-in roster: %v", err))
	}
	return t
}

// Roles lists every member, architect first.
func (t *Team) Roles() []role.Role {
	roles := make([]role.Role, 0, 1+len(t.Developers)+len(t.Testers))
	roles = append(roles, t.Architect)
	for _, d := range t.Developers {
		roles = append(roles, d)
	}
	for _, tester := range t.Testers {
		roles = append(roles, tester)
	}
	return roles
}
