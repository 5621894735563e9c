package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resumetailor/internal/fetch"
)

func TestStrategiesFor_LinkedInOrder(t *testing.T) {
	strategies := StrategiesFor(fetch.PlatformLinkedIn)

	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name)
	}

	assert.Equal(t, []string{
		"div.jobs-description__content",
		"div.description__text",
		"div.show-more-less-html__markup",
		"section.description",
		"ld+json JobPosting",
	}, names)
}

func TestJSONLDStrategy(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		want   string
		wantOK bool
	}{
		{
			name:   "plain object",
			html:   `<script type="application/ld+json">{"@type":"JobPosting","description":"<p>Write Go</p>"}</script>`,
			want:   "Write Go",
			wantOK: true,
		},
		{
			name:   "array",
			html:   `<script type="application/ld+json">[{"@type":"Organization"},{"@type":"JobPosting","description":"Array role"}]</script>`,
			want:   "Array role",
			wantOK: true,
		},
		{
			name:   "graph",
			html:   `<script type="application/ld+json">{"@graph":[{"@type":"JobPosting","description":"Graph role"}]}</script>`,
			want:   "Graph role",
			wantOK: true,
		},
		{
			name:   "skips malformed block",
			html:   `<script type="application/ld+json">{not json</script><script type="application/ld+json">{"@type":"JobPosting","description":"second"}</script>`,
			want:   "second",
			wantOK: true,
		},
		{
			name: "other type",
			html: `<script type="application/ld+json">{"@type":"Organization","description":"Acme"}</script>`,
		},
		{
			name: "no script",
			html: `<p>hello</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := fetch.ParseHTML(tt.html)
			require.NoError(t, err)

			got, ok := JSONLDStrategy().Extract(doc)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectionText_SkipsScriptsAndButtons(t *testing.T) {
	doc, err := fetch.ParseHTML(`<div class="d">Role<script>var x = 1;</script><button>Show more</button><p>Details</p></div>`)
	require.NoError(t, err)

	text, ok := SelectorStrategy("div.d").Extract(doc)
	require.True(t, ok)
	assert.Equal(t, "Role\nDetails", text)
}

func TestRun_NoStrategies(t *testing.T) {
	doc, err := fetch.ParseHTML(`<p>x</p>`)
	require.NoError(t, err)

	_, _, ok := Run(doc, nil)
	assert.False(t, ok)
}

func TestSelectionText_SourceLineBreaksAreInline(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"wrapped paragraph", "<div class=\"d\"><p>We build\n\t   distributed\nsystems.</p></div>", "We build distributed systems."},
		{"inline siblings", "<div class=\"d\">Write\n<strong>Go</strong>\nservices</div>", "Write Go services"},
		{"br splits", "<div class=\"d\"><p>Line one<br>Line\ntwo</p></div>", "Line one\nLine two"},
		{"pre keeps lines", "<div class=\"d\"><pre>step one\nstep two</pre></div>", "step one\nstep two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := fetch.ParseHTML(tt.html)
			require.NoError(t, err)

			text, ok := SelectorStrategy("div.d").Extract(doc)
			require.True(t, ok)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestJSONLDStrategy_PlainTextKeepsLines(t *testing.T) {
	doc, err := fetch.ParseHTML(`<script type="application/ld+json">{"@type":"JobPosting","description":"Write Go\n\nShip   often"}</script>`)
	require.NoError(t, err)

	text, ok := JSONLDStrategy().Extract(doc)
	require.True(t, ok)
	assert.Equal(t, "Write Go\nShip often", text)
}
