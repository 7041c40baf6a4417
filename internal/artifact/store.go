package artifact

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ErrOutsideRoot is returned for references that resolve outside the store root.
var ErrOutsideRoot = errors.New("artifact: path escapes export root")

// Store writes exported artifacts below a root directory.
type Store struct {
	fs   afero.Fs
	root string
	now  func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for metadata timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = clock
	}
}

// WithFs overrides the filesystem (the OS filesystem by default).
func WithFs(fsys afero.Fs) StoreOption {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// NewStore builds a store rooted at dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	store := &Store{
		fs:   afero.NewOsFs(),
		root: dir,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Root returns the export directory.
func (s *Store) Root() string {
	return s.root
}

// Path resolves ref below the store root.
func (s *Store) Path(ref Ref) string {
	return ref.Path(s.root)
}

// resolve returns the path of ref, refusing anything that lands outside root.
func (s *Store) resolve(ref Ref) (string, error) {
	path := s.Path(ref)
	rel, err := filepath.Rel(filepath.Clean(s.root), path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutsideRoot, ref.ID, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s resolves to %s", ErrOutsideRoot, ref.ID, path)
	}
	return path, nil
}

// Write persists the artifact body. Documents get a frontmatter block with
// meta; source files are written verbatim. Existing files are replaced.
func (s *Store) Write(ref Ref, body []byte, meta Metadata) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure dir for %s: %w", ref.ID, err)
	}
	if ref.Kind == KindSource {
		return afero.WriteFile(s.fs, path, body, 0o644)
	}
	prepared := meta.WithDefaults(ref, s.now())
	if prepared.Checksum == "" {
		prepared.Checksum = Checksum(body)
	}
	if err := prepared.ValidateFor(ref); err != nil {
		return err
	}
	content, err := WriteFrontMatter(prepared, body)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, path, content, 0o644)
}

// Check inspects the artifact on disk and returns its status and metadata.
func (s *Store) Check(ref Ref) (CheckResult, error) {
	path := s.Path(ref)
	if path == "" {
		err := fmt.Errorf("artifact: %s path could not be resolved", ref.ID)
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	if _, err := s.resolve(ref); err != nil {
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Ref: ref, Path: path, State: StateMissing}, nil
		}
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	if info.IsDir() {
		return invalidResult(ref, path, fmt.Errorf("artifact: expected file got directory"))
	}
	if ref.Kind == KindSource {
		return CheckResult{Ref: ref, Path: path, State: StateReady}, nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	return checkDocument(ref, path, data)
}

// Verify checks every markdown document below the root against the checksum
// in its frontmatter. Documents are identified by their own metadata, so this
// works on an export without knowing which result produced it. Results are
// in lexical path order; a missing root is an error.
func (s *Store) Verify() ([]CheckResult, error) {
	var results []CheckResult
	err := afero.Walk(s.fs, s.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			return err
		}
		ref := DocumentRef("", info.Name(), "", filepath.ToSlash(rel))
		if meta, _, err := ParseFrontMatter(data); err == nil {
			ref.ID, ref.Owner = meta.ArtifactID, meta.Owner
		}
		result, _ := checkDocument(ref, path, data)
		results = append(results, result)
		return nil
	})
	if err != nil {
		return results, fmt.Errorf("artifact: verify %s: %w", s.root, err)
	}
	return results, nil
}

func checkDocument(ref Ref, path string, data []byte) (CheckResult, error) {
	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return invalidResult(ref, path, err)
	}
	if meta.ArtifactID != ref.ID {
		return invalidResult(ref, path, fmt.Errorf("artifact: metadata id %s does not match %s", meta.ArtifactID, ref.ID))
	}
	if meta.Checksum != "" && meta.Checksum != Checksum(body) {
		return invalidResult(ref, path, fmt.Errorf("artifact: checksum mismatch for %s", ref.ID))
	}
	return CheckResult{Ref: ref, Path: path, State: StateReady, Metadata: &meta}, nil
}

// Checksum returns the hex sha256 of body.
func Checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return fmt.Sprintf("%x", sum[:])
}

func invalidResult(ref Ref, path string, err error) (CheckResult, error) {
	return CheckResult{Ref: ref, Path: path, State: StateInvalid, Err: err}, err
}
