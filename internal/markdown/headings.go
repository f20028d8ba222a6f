// Package markdown extracts headings from note content and renders notes for
// the terminal.
package markdown

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/treykane/paneboard/internal/workspace"
)

var parser = goldmark.New()

// ExtractHeadings returns the ATX and setext headings of content in document
// order. Headings inside code blocks are ignored. Ids are slugs of the heading
// text, made unique with a numeric suffix.
func ExtractHeadings(content string) []workspace.Heading {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	source := []byte(content)
	doc := parser.Parser().Parse(text.NewReader(source))

	var headings []workspace.Heading
	seen := map[string]int{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := strings.TrimSpace(inlineText(h, source))
		id := Slugify(title)
		if id == "" {
			id = fmt.Sprintf("heading-%d", len(headings))
		}
		if count, dup := seen[id]; dup {
			seen[id] = count + 1
			id = fmt.Sprintf("%s-%d", id, count+1)
		} else {
			seen[id] = 0
		}
		headings = append(headings, workspace.Heading{Level: h.Level, Text: title, ID: id})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// inlineText concatenates the literal text below n.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// Slugify lowercases s, drops punctuation, and joins words with single
// hyphens. Letters and digits of any script are kept.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}
	return b.String()
}

// LocateHeadings finds the rendered line of each heading. Headings are
// matched in order, each search starting after the previous match, so
// repeated titles resolve to successive lines. Unmatched headings are absent
// from the result.
func LocateHeadings(rendered string, headings []workspace.Heading) map[string]int {
	if len(headings) == 0 {
		return nil
	}
	lines := strings.Split(ansi.Strip(rendered), "\n")
	for i := range lines {
		lines[i] = strings.ToLower(lines[i])
	}
	out := make(map[string]int, len(headings))
	next := 0
	for _, h := range headings {
		needle := strings.ToLower(strings.TrimSpace(h.Text))
		if needle == "" {
			continue
		}
		for i := next; i < len(lines); i++ {
			if strings.Contains(lines[i], needle) {
				out[h.ID] = i
				next = i + 1
				break
			}
		}
	}
	return out
}
