// Package chapter extracts titles and section bodies from markdown chapter
// documents, the source material manifests are built from.
package chapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"sceneforge/internal/services"
)

// Diagram placeholders are editorial markers in the source text, not
// content; they are stripped before any section body is returned.
var diagramMarker = regexp.MustCompile(`%%DIAGRAM_MARKER_\w+%%`)

type heading struct {
	level int
	text  string
	// start/end bound the heading line within the source.
	start, end int
}

// Document is a parsed markdown chapter.
type Document struct {
	src      []byte
	headings []heading
}

// Load reads and parses a chapter file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "chapter", "load", path, err)
		}
		return nil, fmt.Errorf("read chapter: %w", err)
	}
	return Parse(data), nil
}

// Parse builds a Document from markdown source.
func Parse(src []byte) *Document {
	doc := &Document{src: src}

	root := goldmark.New().Parser().Parse(text.NewReader(src))
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		doc.headings = append(doc.headings, heading{
			level: h.Level,
			text:  strings.TrimSpace(string(headingText(h, src))),
			start: lineStart(src, first.Start),
			end:   last.Stop,
		})
		return ast.WalkSkipChildren, nil
	})

	return doc
}

// Title returns the first top-level heading, or a placeholder when the
// document has none.
func (d *Document) Title() string {
	for _, h := range d.headings {
		if h.level == 1 && h.text != "" {
			return h.text
		}
	}
	return "Untitled Chapter"
}

// Section returns the raw text belonging to the named section: everything
// between the section's own heading and the next heading at the same or a
// higher level. Both "## 1a" and "## Section 1a" heading styles match.
func (d *Document) Section(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", services.Wrap(services.ErrContent, "chapter", "section", "empty section id", nil)
	}

	for i, h := range d.headings {
		if !matchesSection(h.text, id) {
			continue
		}
		end := len(d.src)
		for _, next := range d.headings[i+1:] {
			if next.level <= h.level {
				end = next.start
				break
			}
		}
		body := string(d.src[h.end:end])
		body = diagramMarker.ReplaceAllString(body, "")
		body = strings.TrimSpace(body)
		if body == "" {
			return "", services.Wrap(services.ErrContent, "chapter", "section", fmt.Sprintf("section %q is empty", id), nil)
		}
		return body, nil
	}
	return "", services.Wrap(services.ErrContent, "chapter", "section", fmt.Sprintf("section %q not found", id), nil)
}

// SectionIDs lists the level-2 section identifiers in document order. A
// heading written "## Section 1a" yields "1a"; any other level-2 heading
// yields its full text.
func (d *Document) SectionIDs() []string {
	var ids []string
	for _, h := range d.headings {
		if h.level != 2 || h.text == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(h.text, "Section "); ok {
			ids = append(ids, strings.TrimSpace(rest))
			continue
		}
		ids = append(ids, h.text)
	}
	return ids
}

func matchesSection(headingText, id string) bool {
	headingText = strings.TrimSpace(headingText)
	if strings.EqualFold(headingText, id) {
		return true
	}
	return strings.EqualFold(headingText, "Section "+id)
}

func headingText(h *ast.Heading, src []byte) []byte {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		} else if str, ok := c.(*ast.String); ok {
			b.Write(str.Value)
		}
	}
	return []byte(b.String())
}

func lineStart(src []byte, offset int) int {
	for offset > 0 && src[offset-1] != '\n' {
		offset--
	}
	return offset
}
