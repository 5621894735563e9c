// Package tailoring rewrites a resume for a job description through one
// text generation backend.
package tailoring

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resumetailor/internal/llm"
	"github.com/jonathan/resumetailor/internal/prompts"
)

// MaxDescriptionRunes bounds how much of the job description enters the prompt.
const MaxDescriptionRunes = 1000

const (
	promptFile = "tailoring.json"
	promptKey  = "tailor-resume"
)

// Client tailors resumes. It is safe for concurrent use when its backend is.
type Client struct {
	backend llm.Backend
}

// New creates a Client bound to backend.
func New(backend llm.Backend) *Client {
	return &Client{backend: backend}
}

// Tailor submits one prompt built from jobDescription and resumeText and
// returns the generated text verbatim. There are no retries. A reply without
// text is rejected by the backend as llm.ErrEmptyResponse.
func (c *Client) Tailor(ctx context.Context, jobDescription, resumeText string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", &InputError{Field: "jobDescription", Message: "must not be empty"}
	}
	if strings.TrimSpace(resumeText) == "" {
		return "", &InputError{Field: "resumeText", Message: "must not be empty"}
	}

	prompt, err := BuildPrompt(jobDescription, resumeText)
	if err != nil {
		return "", &TailoringError{Backend: c.backend.Name(), Message: "failed to build prompt", Cause: err}
	}

	log.Printf("[TAILOR] Generating with %s backend (prompt: %d chars)", c.backend.Name(), len(prompt))

	text, err := c.backend.Generate(ctx, prompt)
	if err != nil {
		return "", &TailoringError{Backend: c.backend.Name(), Message: "backend call failed", Cause: err}
	}
	return text, nil
}

// BuildPrompt renders the tailoring prompt: fixed instructions, then the
// truncated job description, then the full resume.
func BuildPrompt(jobDescription, resumeText string) (string, error) {
	tmpl, err := prompts.Load(promptFile, promptKey)
	if err != nil {
		return "", err
	}
	return tmpl.Render(map[string]string{
		"JobDescription": Truncate(jobDescription, MaxDescriptionRunes),
		"Resume":         resumeText,
	})
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
