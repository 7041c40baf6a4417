// Package roster loads team definitions from YAML and turns them into roles.
//
// A roster file looks like:
//
//	version: 1
//	architect:
//	  name: Architect
//	  focus_areas: [architecture]
//	  provider: openai:gpt-4o
//	developers:
//	  - name: Developer A
//	    skills: [Go]
//	    provider: {provider: ollama, model: llama3}
//	testers:
//	  - name: Tester A
//	    specialties: [Playwright]
package roster

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/scrumteam/internal/role"
)

// FileName is the conventional roster file name.
const FileName = "team.yaml"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrNotFound is returned by Load when the roster file does not exist.
var ErrNotFound = errors.New("roster: file not found")

// Roster is the declarative shape of a team.
type Roster struct {
	Version    int               `yaml:"version" validate:"gte=0"`
	Architect  role.Definition   `yaml:"architect"`
	Developers []role.Definition `yaml:"developers" validate:"min=1,dive"`
	Testers    []role.Definition `yaml:"testers" validate:"min=1,dive"`
}

// Members are the roles built from a roster.
type Members struct {
	Architect  *role.Architect
	Developers []*role.Developer
	Testers    []*role.Tester
}

// Parse decodes and validates roster YAML.
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("roster: parse: %w", err)
	}
	if r.Version == 0 {
		r.Version = 1
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and validates the roster at path.
func Load(fsys afero.Fs, path string) (*Roster, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Validate checks that every member is named, names are unique and each
// discipline is staffed. Names end up in export file names, so they may not
// contain path separators or "..".
func (r *Roster) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("roster: %s", describe(verrs))
		}
		return fmt.Errorf("roster: %w", err)
	}
	seen := map[string]role.Kind{}
	for _, def := range r.Definitions() {
		name := strings.TrimSpace(def.Name)
		if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return fmt.Errorf("roster: member name %q must not contain path separators or \"..\"", name)
		}
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("roster: duplicate member name %q (%s and %s)", name, prev, def.Kind)
		}
		seen[key] = def.Kind
	}
	return nil
}

// Definitions lists every member with its kind set, architect first.
func (r *Roster) Definitions() []role.Definition {
	defs := make([]role.Definition, 0, 1+len(r.Developers)+len(r.Testers))
	arch := r.Architect
	arch.Kind = role.KindArchitect
	defs = append(defs, arch)
	for _, def := range r.Developers {
		def.Kind = role.KindDeveloper
		defs = append(defs, def)
	}
	for _, def := range r.Testers {
		def.Kind = role.KindTester
		defs = append(defs, def)
	}
	return defs
}

// Build resolves every definition through reg. A nil registry uses the
// default one.
func (r *Roster) Build(reg *role.Registry) (Members, error) {
	if reg == nil {
		reg = role.DefaultRegistry()
	}
	var members Members
	for _, def := range r.Definitions() {
		built, err := reg.Resolve(def)
		if err != nil {
			return Members{}, fmt.Errorf("roster: %w", err)
		}
		switch v := built.(type) {
		case *role.Architect:
			if members.Architect != nil {
				return Members{}, fmt.Errorf("roster: more than one architect")
			}
			members.Architect = v
		case *role.Developer:
			members.Developers = append(members.Developers, v)
		case *role.Tester:
			members.Testers = append(members.Testers, v)
		default:
			return Members{}, fmt.Errorf("roster: %s resolved to unsupported role %T", def.Name, built)
		}
	}
	if members.Architect == nil {
		return Members{}, fmt.Errorf("roster: no architect resolved")
	}
	return members, nil
}

// Marshal encodes the roster back to YAML.
func (r *Roster) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("roster: encode: %w", err)
	}
	return data, nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Roster.")
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "min":
			parts = append(parts, fmt.Sprintf("%s needs at least %s member(s)", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
