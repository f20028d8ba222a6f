package app

import "time"

// Layout constants define the default dimensions and spacing for the UI
const (
	// BreadcrumbRows is the header line above the panes.
	BreadcrumbRows = 1

	// FooterMinRows is the default number of rows reserved for the bottom
	// status/help area.
	FooterMinRows = 2
	// FooterMaxRows is the expanded footer height used when content does not
	// fit within FooterMinRows.
	FooterMaxRows = 3

	// DividerGrabColumns is how far from a pane border a press still grabs
	// the divider.
	DividerGrabColumns = 1

	// ResizeStepColumns is how far one keyboard resize moves a divider.
	ResizeStepColumns = 4
)

// Input limits define maximum sizes for user input
const (
	// InputCharLimit is the maximum number of characters allowed in text inputs
	InputCharLimit = 120
)

// Rendering constants control render timing
const (
	// RenderDebounce is the delay before rendering after a resize or a
	// content change, so bursts collapse into one render per pane.
	RenderDebounce = 150 * time.Millisecond

	// HighlightDuration is how long an activated heading stays highlighted.
	HighlightDuration = 1500 * time.Millisecond

	// StoreTimeout bounds each catalog call made from a command.
	StoreTimeout = 10 * time.Second
)
