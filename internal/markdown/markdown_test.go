package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/workspace"
)

func TestExtractHeadings(t *testing.T) {
	content := strings.Join([]string{
		"# Intro",
		"",
		"Some text.",
		"",
		"## Setup & *Install*",
		"",
		"```",
		"# not a heading",
		"```",
		"",
		"Setext Title",
		"------------",
		"",
		"## Intro",
		"",
		"### !!!",
		"",
		"#### 快速 开始",
	}, "\n")

	got := ExtractHeadings(content)
	want := []workspace.Heading{
		{Level: 1, Text: "Intro", ID: "intro"},
		{Level: 2, Text: "Setup & Install", ID: "setup-install"},
		{Level: 2, Text: "Setext Title", ID: "setext-title"},
		{Level: 2, Text: "Intro", ID: "intro-1"},
		{Level: 3, Text: "!!!", ID: "heading-4"},
		{Level: 4, Text: "快速 开始", ID: "快速-开始"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d headings, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("heading %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractHeadingsEmpty(t *testing.T) {
	if got := ExtractHeadings("   \n"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := ExtractHeadings("plain paragraph"); len(got) != 0 {
		t.Fatalf("expected no headings, got %+v", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Hello World", want: "hello-world"},
		{input: "  Trim -- me  ", want: "trim-me"},
		{input: "v1.2: notes", want: "v12-notes"},
		{input: "snake_case", want: "snake_case"},
		{input: "---", want: ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Fatalf("Slugify(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLocateHeadingsMatchesInOrder(t *testing.T) {
	rendered := "\x1b[1m  INTRO\x1b[0m\n\nbody\n\n  ## Setup\n\n  Intro again\n"
	headings := []workspace.Heading{
		{Level: 1, Text: "Intro", ID: "intro"},
		{Level: 2, Text: "Setup", ID: "setup"},
		{Level: 2, Text: "Intro", ID: "intro-1"},
		{Level: 2, Text: "Missing", ID: "missing"},
	}

	got := LocateHeadings(rendered, headings)
	want := map[string]int{"intro": 0, "setup": 4, "intro-1": 6}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for id, line := range want {
		if got[id] != line {
			t.Fatalf("heading %q: got line %d, want %d", id, got[id], line)
		}
	}
}

func TestWidthBucket(t *testing.T) {
	tests := map[int]int{0: 80, -5: 80, 15: 15, 20: 20, 81: 80, 119: 100}
	for input, want := range tests {
		if got := WidthBucket(input); got != want {
			t.Fatalf("WidthBucket(%d): got %d, want %d", input, got, want)
		}
	}
}

func TestRendererCachesPerWidthBucket(t *testing.T) {
	r := NewRenderer("notty")
	r.Render("# a", 81)
	r.Render("# b", 95)
	if r.cached() != 1 {
		t.Fatalf("expected one renderer for one bucket, got %d", r.cached())
	}
	for w := 20; w <= 20*(maxRenderers+3); w += 20 {
		r.Render("x", w)
	}
	if r.cached() != maxRenderers {
		t.Fatalf("expected cache bounded to %d, got %d", maxRenderers, r.cached())
	}
}

func TestRenderNoteKinds(t *testing.T) {
	r := NewRenderer("notty")

	script := ansi.Strip(r.RenderNote(catalog.Note{Title: "deploy", Kind: catalog.KindScript, Language: "bash", Content: "echo hi\n"}, 80))
	if !strings.Contains(script, "deploy") || !strings.Contains(script, "echo hi") {
		t.Fatalf("expected title and code in script render, got %q", script)
	}

	pdf := ansi.Strip(r.RenderNote(catalog.Note{ID: "kb/paper.pdf", Title: "paper", Kind: catalog.KindPDF}, 80))
	if !strings.Contains(pdf, "kb/paper.pdf") {
		t.Fatalf("expected pdf metadata, got %q", pdf)
	}

	md := ansi.Strip(r.RenderNote(catalog.Note{Kind: catalog.KindMarkdown, Content: "# Hello\n\nworld"}, 80))
	if !strings.Contains(md, "Hello") || !strings.Contains(md, "world") {
		t.Fatalf("expected markdown render, got %q", md)
	}
}
