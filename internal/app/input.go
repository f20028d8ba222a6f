package app

import (
	"os"
	"regexp"

	tea "github.com/charmbracelet/bubbletea"
)

// oscColorReply matches a terminal's answer to a background colour query,
// which some terminals deliver as ordinary key runes.
var oscColorReply = regexp.MustCompile(`\]?1?1;rgb:[0-9a-fA-F]{2,4}/[0-9a-fA-F]{2,4}/[0-9a-fA-F]{2,4}`)

var debugInput = os.Getenv("PANEBOARD_DEBUG_INPUT") != ""

// shouldIgnoreInput drops rune input that is really a terminal response or
// carries control characters, so it never reaches the editor or prompts.
func (m *Model) shouldIgnoreInput(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return false
	}
	sequence := string(msg.Runes)
	if !oscColorReply.MatchString(sequence) && !containsControlRunes(sequence) {
		return false
	}
	if debugInput {
		appLog.Debug("ignored input", "sequence", sequence)
	}
	return true
}

func containsControlRunes(sequence string) bool {
	for _, r := range sequence {
		switch {
		case r == '\n' || r == '\t':
			continue
		case r < 32 || r == 127:
			return true
		}
	}
	return false
}
