package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("artifact: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("artifact: malformed frontmatter")
)

const fence = "---"

// header is the YAML shape of document provenance. Keys sit at the top level
// of the block so exported documents stay readable in any markdown viewer.
type header struct {
	Artifact  string            `yaml:"artifact"`
	Owner     string            `yaml:"owner"`
	Iteration string            `yaml:"iteration"`
	Source    string            `yaml:"source,omitempty"`
	Created   string            `yaml:"created"`
	Checksum  string            `yaml:"checksum,omitempty"`
	Notes     map[string]string `yaml:"notes,omitempty"`
}

// WriteFrontMatter renders meta as a fenced YAML block followed by body.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if meta.ArtifactID == "" {
		return nil, fmt.Errorf("artifact: metadata missing artifact id")
	}
	h := header{
		Artifact:  meta.ArtifactID,
		Owner:     meta.Owner,
		Iteration: meta.Iteration,
		Source:    meta.Source,
		Created:   meta.CreatedAt.UTC().Format(time.RFC3339),
		Checksum:  meta.Checksum,
	}
	if len(meta.Notes) > 0 {
		h.Notes = meta.Notes
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("artifact: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("artifact: encode frontmatter: %w", err)
	}
	buf.WriteString(fence + "\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// ParseFrontMatter splits a document into its provenance and body. The blank
// line WriteFrontMatter puts after the closing fence is not part of the body.
func ParseFrontMatter(content []byte) (Metadata, []byte, error) {
	block, body, err := splitFence(bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")))
	if err != nil {
		return Metadata{}, nil, err
	}
	var h header
	if err := yaml.Unmarshal(block, &h); err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	if h.Artifact == "" || h.Owner == "" || h.Iteration == "" {
		return Metadata{}, nil, fmt.Errorf("%w: artifact, owner and iteration are required", ErrMalformedFrontMatter)
	}
	created, err := time.Parse(time.RFC3339, h.Created)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: created: %v", ErrMalformedFrontMatter, err)
	}
	meta := Metadata{
		ArtifactID: h.Artifact,
		Owner:      h.Owner,
		Iteration:  h.Iteration,
		Source:     h.Source,
		CreatedAt:  created.UTC(),
		Checksum:   h.Checksum,
	}
	if len(h.Notes) > 0 {
		meta.Notes = h.Notes
	}
	return meta, bytes.TrimPrefix(body, []byte("\n")), nil
}

// splitFence walks the document line by line: the first line must be a
// fence, and the block runs until the next fence line.
func splitFence(content []byte) (block, body []byte, err error) {
	line, rest, found := bytes.Cut(content, []byte("\n"))
	if !found || string(line) != fence {
		return nil, nil, ErrMissingFrontMatter
	}
	start := len(content) - len(rest)
	for offset := start; offset < len(content); {
		line, next, more := bytes.Cut(content[offset:], []byte("\n"))
		if string(line) == fence {
			if !more {
				return content[start:offset], nil, nil
			}
			return content[start:offset], next, nil
		}
		if !more {
			break
		}
		offset = len(content) - len(next)
	}
	return nil, nil, fmt.Errorf("%w: closing fence not found", ErrMalformedFrontMatter)
}
