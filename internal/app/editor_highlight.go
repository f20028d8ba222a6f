package app

import "strings"

// highlightFencedCode styles fenced code blocks in a rendered editor view.
//
// The view is scanned line by line. Every line containing a triple backtick
// is a fence delimiter: it is drawn with editorFenceLine and flips the
// in-fence state, whether it opens or closes the block. Lines inside a
// block are drawn with editorCodeLine. Prose outside any block is left as
// the textarea drew it.
//
// It runs on the final textarea output during View, so the editor's buffer
// and cursor are never touched. Only markdown notes are passed through it;
// script editors show their text unstyled. A view without any backticks is
// returned as is.
func highlightFencedCode(view string) string {
	if !strings.Contains(view, "```") {
		return view
	}
	lines := strings.Split(view, "\n")
	inFence := false
	for i, line := range lines {
		if strings.Contains(line, "```") {
			lines[i] = editorFenceLine.Render(line)
			inFence = !inFence
			continue
		}
		if inFence {
			lines[i] = editorCodeLine.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
