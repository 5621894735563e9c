// Package prompts holds the LLM prompt templates, embedded at compile time
// from JSON files keyed by prompt name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// placeholder matches {{.Key}}.
var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Template is one named prompt.
type Template struct {
	Name string
	Text string
}

// MissingValueError is returned by Render when a placeholder has no value.
type MissingValueError struct {
	Template string
	Key      string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("prompt %s: no value for {{.%s}}", e.Template, e.Key)
}

// Render substitutes every placeholder. All placeholders must have a value.
func (t *Template) Render(values map[string]string) (string, error) {
	for _, key := range Placeholders(t.Text) {
		if _, ok := values[key]; !ok {
			return "", &MissingValueError{Template: t.Name, Key: key}
		}
	}
	return Format(t.Text, values), nil
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass: placeholders inside substituted values stay literal text, and
// placeholders without a value are kept.
func Format(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]
		if value, ok := data[key]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct keys used by template in order of first
// appearance.
func Placeholders(template string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// fileSet parses each embedded file at most once.
type fileSet struct {
	mu    sync.Mutex
	files map[string]map[string]string
}

var loaded = &fileSet{files: make(map[string]map[string]string)}

func (s *fileSet) get(filename string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if templates, ok := s.files[filename]; ok {
		return templates, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	s.files[filename] = templates
	return templates, nil
}

// Load returns the template stored under key in filename (e.g.
// "tailoring.json").
func Load(filename, key string) (*Template, error) {
	templates, err := loaded.get(filename)
	if err != nil {
		return nil, err
	}
	text, ok := templates[key]
	if !ok {
		return nil, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return &Template{Name: key, Text: text}, nil
}
