package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScrapeLog(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError bool
	}{
		{"empty array", `[]`, false},
		{"one entry", `[{"source":"linkedin","url":"https://www.linkedin.com/jobs/view/1","description":"Go"}]`, false},
		{"empty description", `[{"source":"linkedin","url":"u","description":""}]`, false},
		{"object instead of array", `{"source":"linkedin"}`, true},
		{"missing url", `[{"source":"linkedin","description":"Go"}]`, true},
		{"empty source", `[{"source":"","url":"u","description":"Go"}]`, true},
		{"wrong type", `[{"source":"linkedin","url":"u","description":42}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScrapeLog([]byte(tt.doc))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateScrapeLog_MalformedDocument(t *testing.T) {
	err := ValidateScrapeLog([]byte(`[{"source":`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
