package workspace

import "testing"

var introHeadings = []Heading{
	{Level: 1, Text: "Intro", ID: "intro"},
	{Level: 2, Text: "Setup", ID: "setup"},
}

func TestOpenTOCCreatesPaneAfterSource(t *testing.T) {
	c := newTestController()
	c.Split("P1") // P1 P2

	s := c.OpenTOC("P1", introHeadings, nil, TOCOptions{})
	assertIDs(t, s, "P1", "P3", "P2")
	assertRatios(t, s.Ratios, []float64{0.25, 0.25, 0.5})
	if s.ActiveID != "P3" {
		t.Fatalf("expected new TOC active, got %q", s.ActiveID)
	}
}

func TestOpenTOCUpdatesExistingPane(t *testing.T) {
	c := newTestController()
	c.Split("P1")
	c.OpenTOC("P1", introHeadings, nil, TOCOptions{})
	c.Focus("P2")

	updated := []Heading{{Level: 1, Text: "Other", ID: "other"}}
	s := c.OpenTOC("P2", updated, nil, TOCOptions{})
	assertIDs(t, s, "P1", "P3", "P2")
	toc, ok := s.TOCPane()
	if !ok {
		t.Fatal("expected TOC pane")
	}
	if toc.TOC.SourcePaneID != "P2" || len(toc.TOC.Headings) != 1 || toc.TOC.Headings[0].ID != "other" {
		t.Fatalf("expected TOC to show P2 headings, got %+v", toc.TOC)
	}
	if s.ActiveID != "P3" {
		t.Fatalf("expected update to focus the TOC pane, got %q", s.ActiveID)
	}
}

func TestOpenTOCOnlyUpdate(t *testing.T) {
	c := newTestController()

	s := c.OpenTOC("P1", introHeadings, nil, TOCOptions{OnlyUpdate: true})
	assertIDs(t, s, "P1")

	c.OpenTOC("P1", introHeadings, nil, TOCOptions{})
	c.Focus("P1")
	s = c.OpenTOC("P1", introHeadings[:1], nil, TOCOptions{OnlyUpdate: true})
	if s.ActiveID != "P1" {
		t.Fatalf("expected only-update to keep focus, got %q", s.ActiveID)
	}
	toc, _ := s.TOCPane()
	if len(toc.TOC.Headings) != 1 {
		t.Fatalf("expected refreshed headings, got %+v", toc.TOC.Headings)
	}
}

func TestOpenTOCUnknownSourceIsNoop(t *testing.T) {
	c := newTestController()
	s := c.OpenTOC("ghost", introHeadings, nil, TOCOptions{})
	assertIDs(t, s, "P1")
	if _, ok := s.TOCPane(); ok {
		t.Fatal("expected no TOC pane")
	}

	c.Split("P1") // P1 P2
	c.OpenTOC("P2", introHeadings, nil, TOCOptions{})
	c.Focus("P1")
	for _, opts := range []TOCOptions{{}, {OnlyUpdate: true}} {
		s = c.OpenTOC("ghost", []Heading{{Level: 1, Text: "B", ID: "b"}}, nil, opts)
		if s.ActiveID != "P1" {
			t.Fatalf("OnlyUpdate=%v: expected focus to stay on P1, got %q", opts.OnlyUpdate, s.ActiveID)
		}
		toc, ok := s.TOCPane()
		if !ok || toc.TOC.SourcePaneID != "P2" || len(toc.TOC.Headings) != len(introHeadings) {
			t.Fatalf("OnlyUpdate=%v: expected the existing TOC to be untouched, got %+v", opts.OnlyUpdate, toc.TOC)
		}
	}
}

func TestOpenTOCCopiesHeadings(t *testing.T) {
	c := newTestController()
	headings := append([]Heading(nil), introHeadings...)
	c.OpenTOC("P1", headings, nil, TOCOptions{})
	headings[0].Text = "mutated"

	toc, _ := c.Snapshot().TOCPane()
	if toc.TOC.Headings[0].Text != "Intro" {
		t.Fatalf("expected TOC to own its headings, got %q", toc.TOC.Headings[0].Text)
	}
}

func TestActivateHeadingFocusesLeftmostAnchor(t *testing.T) {
	c := newTestController()
	c.Split("P1") // P1 P2
	c.OpenTOC("P2", introHeadings, nil, TOCOptions{})

	c.RegisterAnchors("P2", map[string]int{"intro": 0, "setup": 12})
	c.RegisterAnchors("P1", map[string]int{"setup": 4})

	anchor, ok := c.ActivateHeading("setup")
	if !ok {
		t.Fatal("expected anchor hit")
	}
	if anchor.PaneID != "P1" || anchor.Line != 4 {
		t.Fatalf("expected leftmost anchor P1:4, got %+v", anchor)
	}
	if c.Snapshot().ActiveID != "P1" {
		t.Fatalf("expected P1 focused, got %q", c.Snapshot().ActiveID)
	}
}

func TestActivateHeadingFallsBackToCallback(t *testing.T) {
	c := newTestController()
	var activated []string
	c.OpenTOC("P1", introHeadings, func(id string) { activated = append(activated, id) }, TOCOptions{})

	if _, ok := c.ActivateHeading("setup"); ok {
		t.Fatal("expected no anchor")
	}
	if len(activated) != 1 || activated[0] != "setup" {
		t.Fatalf("expected fallback with setup, got %v", activated)
	}
}

func TestAnchorsForgottenWhenPaneCloses(t *testing.T) {
	c := newTestController()
	c.Split("P1")
	c.RegisterAnchors("P2", map[string]int{"intro": 3})
	c.Close("P2")
	c.Split("P1")

	if _, ok := c.ActivateHeading("intro"); ok {
		t.Fatal("expected anchors of a closed pane to be dropped")
	}
}

func TestRegisterAnchorsIgnoresUnknownPane(t *testing.T) {
	c := newTestController()
	c.RegisterAnchors("ghost", map[string]int{"intro": 1})
	if _, ok := c.ActivateHeading("intro"); ok {
		t.Fatal("expected unknown pane anchors to be ignored")
	}
}

func TestForgetAnchors(t *testing.T) {
	c := newTestController()
	c.RegisterAnchors("P1", map[string]int{"intro": 1})
	c.ForgetAnchors("P1")
	if _, ok := c.ActivateHeading("intro"); ok {
		t.Fatal("expected forgotten anchors to miss")
	}
}
