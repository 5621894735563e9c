package extraction

import (
	"encoding/json"
	"html"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jonathan/resumetailor/internal/fetch"
)

// Strategy isolates description text from a parsed page. Extract reports
// false when the page has no match; the returned text is already normalized.
type Strategy struct {
	Name    string
	Extract func(doc *goquery.Document) (string, bool)
}

// StrategiesFor returns the ordered strategy chain for a platform: its CSS
// selectors first, then structured JobPosting data.
func StrategiesFor(platform fetch.Platform) []Strategy {
	selectors := fetch.PlatformContentSelectors(platform)
	strategies := make([]Strategy, 0, len(selectors)+1)
	for _, selector := range selectors {
		strategies = append(strategies, SelectorStrategy(selector))
	}
	return append(strategies, JSONLDStrategy())
}

// SelectorStrategy matches the first element for a CSS selector.
func SelectorStrategy(selector string) Strategy {
	return Strategy{
		Name: selector,
		Extract: func(doc *goquery.Document) (string, bool) {
			selection := doc.Find(selector).First()
			if selection.Length() == 0 {
				return "", false
			}
			text := fetch.CleanWhitespace(selectionText(selection))
			return text, text != ""
		},
	}
}

// JSONLDStrategy reads the description of a schema.org JobPosting embedded
// as application/ld+json.
func JSONLDStrategy() Strategy {
	return Strategy{
		Name: "ld+json JobPosting",
		Extract: func(doc *goquery.Document) (string, bool) {
			var text string
			doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				description := jobPostingDescription([]byte(s.Text()))
				if description == "" {
					return true
				}
				text = htmlFragmentText(description)
				return text == ""
			})
			return text, text != ""
		},
	}
}

// Run tries each strategy in order and returns the first non-empty match.
func Run(doc *goquery.Document, strategies []Strategy) (text string, strategy string, ok bool) {
	for _, s := range strategies {
		if text, ok := s.Extract(doc); ok {
			return text, s.Name, true
		}
	}
	return "", "", false
}

func jobPostingDescription(raw []byte) string {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	var find func(v any) string
	find = func(v any) string {
		switch node := v.(type) {
		case []any:
			for _, item := range node {
				if d := find(item); d != "" {
					return d
				}
			}
		case map[string]any:
			if t, _ := node["@type"].(string); t == "JobPosting" {
				if d, _ := node["description"].(string); d != "" {
					return d
				}
			}
			if graph, ok := node["@graph"]; ok {
				return find(graph)
			}
		}
		return ""
	}
	return find(payload)
}

// htmlFragmentText handles descriptions that arrive either as markup or as
// entity-escaped markup.
func htmlFragmentText(fragment string) string {
	unescaped := html.UnescapeString(fragment)
	if !strings.Contains(unescaped, "<") {
		return fetch.CleanWhitespace(unescaped)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return ""
	}
	return fetch.CleanWhitespace(selectionText(doc.Find("body")))
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Section: true, atom.Article: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true,
}

// selectionText flattens a selection to text, breaking lines at block
// elements and <br> so adjacent paragraphs never run together. Source line
// breaks inside a block are ordinary whitespace, except under <pre>.
func selectionText(selection *goquery.Selection) string {
	var sb strings.Builder
	for _, node := range selection.Nodes {
		writeNodeText(&sb, node, insidePre(node))
	}
	return sb.String()
}

func writeNodeText(sb *strings.Builder, n *xhtml.Node, pre bool) {
	switch n.Type {
	case xhtml.TextNode:
		if pre {
			sb.WriteString(n.Data)
		} else {
			sb.WriteString(collapseSpace(n.Data))
		}
		return
	case xhtml.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Button:
			return
		case atom.Br:
			sb.WriteByte('\n')
			return
		case atom.Pre:
			pre = true
		}
	}

	block := n.Type == xhtml.ElementNode && blockElements[n.DataAtom]
	if block {
		sb.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(sb, c, pre)
	}
	if block {
		sb.WriteByte('\n')
	}
}

func insidePre(n *xhtml.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == xhtml.ElementNode && p.DataAtom == atom.Pre {
			return true
		}
	}
	return false
}

// collapseSpace turns every whitespace run, newlines included, into one
// space. Edge spaces are kept so inline siblings stay separated.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}
