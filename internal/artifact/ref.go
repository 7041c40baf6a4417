package artifact

import (
	"fmt"
	"path/filepath"
	"time"
)

// Kind captures the storage shape of an exported artifact.
type Kind string

const (
	// KindDocument is a markdown document with YAML frontmatter.
	KindDocument Kind = "document"
	// KindSource is a raw scaffold file written without metadata.
	KindSource Kind = "source"
)

// Ref declares where an exported artifact lives relative to the export root.
type Ref struct {
	ID    string
	Name  string
	Kind  Kind
	Owner string
	Rel   string
}

// Path resolves the artifact below root.
func (r Ref) Path(root string) string {
	if r.Rel == "" {
		return ""
	}
	return filepath.Join(root, filepath.FromSlash(r.Rel))
}

// Validate ensures the reference is well-formed.
func (r Ref) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("artifact: id is required")
	}
	if r.Kind == "" {
		return fmt.Errorf("artifact: kind is required for %s", r.ID)
	}
	if r.Rel == "" {
		return fmt.Errorf("artifact: path missing for %s", r.ID)
	}
	return nil
}

// DocumentRef builds a markdown document reference.
func DocumentRef(id, name, owner, rel string) Ref {
	return Ref{ID: id, Name: name, Kind: KindDocument, Owner: owner, Rel: rel}
}

// SourceRef builds a raw scaffold file reference.
func SourceRef(id, name, owner, rel string) Ref {
	return Ref{ID: id, Name: name, Kind: KindSource, Owner: owner, Rel: rel}
}

// Metadata is the provenance stored in document frontmatter.
type Metadata struct {
	ArtifactID string
	Owner      string
	Iteration  string
	Source     string
	CreatedAt  time.Time
	Checksum   string
	Notes      map[string]string
}

// WithDefaults fills the artifact id, owner and timestamp from ref and now.
func (m Metadata) WithDefaults(ref Ref, now time.Time) Metadata {
	clone := m
	if clone.ArtifactID == "" {
		clone.ArtifactID = ref.ID
	}
	if clone.Owner == "" {
		clone.Owner = ref.Owner
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now.UTC()
	} else {
		clone.CreatedAt = clone.CreatedAt.UTC()
	}
	return clone
}

// ValidateFor ensures metadata matches the artifact reference.
func (m Metadata) ValidateFor(ref Ref) error {
	if m.ArtifactID != ref.ID {
		return fmt.Errorf("artifact: metadata id %s does not match ref %s", m.ArtifactID, ref.ID)
	}
	if m.Owner == "" {
		return fmt.Errorf("artifact: owner is required for %s", ref.ID)
	}
	if m.Iteration == "" {
		return fmt.Errorf("artifact: iteration is required for %s", ref.ID)
	}
	return nil
}

// State captures the readiness of an artifact on disk.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
	StateError   State = "error"
)

// CheckResult captures Store.Check results.
type CheckResult struct {
	Ref      Ref
	Path     string
	State    State
	Metadata *Metadata
	Err      error
}
