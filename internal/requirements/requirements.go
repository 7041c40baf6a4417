// Package requirements turns a free-form requirements document into the
// ordered requirement lines and keyword set the team works from.
package requirements

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// MinKeywordLength is the shortest token kept as a keyword.
const MinKeywordLength = 4

// markup is stripped from both ends of every line.
const markup = " \t\r\n-*#"

var (
	// ErrInputNotFound indicates the requirements document does not exist.
	ErrInputNotFound = errors.New("requirements: document not found")
	// ErrDecode indicates the document is not valid UTF-8 text.
	ErrDecode = errors.New("requirements: document is not valid UTF-8 text")
)

// Read loads the document at path and returns its normalized requirement lines.
func Read(fsys afero.Fs, path string) ([]string, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("requirements: read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrDecode, path)
	}
	return Normalize(string(data)), nil
}

// Normalize strips bullet and heading markup from each line and drops the
// lines left empty. Order and duplicates are preserved.
func Normalize(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.Trim(line, markup)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

// ExtractKeywords returns the sorted, de-duplicated lowercase tokens of at
// least MinKeywordLength characters found in the requirements.
func ExtractKeywords(requirements []string) []string {
	seen := make(map[string]struct{})
	for _, requirement := range requirements {
		cleaned := strings.NewReplacer(",", " ", ".", " ").Replace(requirement)
		for _, token := range strings.Fields(cleaned) {
			normalized := strings.ToLower(token)
			if utf8.RuneCountInString(normalized) < MinKeywordLength {
				continue
			}
			seen[normalized] = struct{}{}
		}
	}
	keywords := make([]string, 0, len(seen))
	for keyword := range seen {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}
