package textdiff

import "strings"

// Style tokens for the HTML output. Character defects and whitespace defects
// use distinct palettes so a reader can tell a typo from a stray space at a
// glance.
const (
	colorTypo           = "#fee2e2"
	colorTypoText       = "#991b1b"
	colorWhitespace     = "#fff3e0"
	colorWhitespaceText = "#c2410c"
	colorAnnotation     = "#dc2626"
)

// Render marks up the problem text, preserving every original rune and
// wrapping defect spans in style tags. Per position: any scheduled annotation
// is emitted first, then whitespace defects win over character defects, and
// contiguous runs of character defects are wrapped as one chunk so adjacent
// problems read as a single visual unit.
//
// Edit and annotation positions must be in original-string coordinates; use
// ProjectEdits / ProjectAnnotations when they were computed on clean text.
func Render(problem string, edits []SemanticEdit, annotations []Annotation, ws WhitespaceMap) string {
	runes := []rune(problem)

	charDefect := make(map[int]bool)
	for _, edit := range edits {
		switch edit.Kind {
		case EditTypo, EditInsertion, EditCaseOnly:
			charDefect[edit.Position] = true
		case EditTransposition:
			charDefect[edit.Position] = true
			if edit.PairPosition >= 0 {
				charDefect[edit.PairPosition] = true
			}
		}
	}
	annotationAt := make(map[int]string, len(annotations))
	for _, a := range annotations {
		annotationAt[a.Position] = a.Text
	}

	var b strings.Builder
	i := 0
	for i < len(runes) {
		if text, ok := annotationAt[i]; ok {
			renderAnnotation(&b, text)
		}
		if ws.problemAt(i) {
			renderSpan(&b, string(runes[i]), colorWhitespace, colorWhitespaceText)
			i++
			continue
		}
		if charDefect[i] {
			end := i + 1
			for end < len(runes) && charDefect[end] {
				end++
			}
			renderSpan(&b, string(runes[i:end]), colorTypo, colorTypoText)
			i = end
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	if text, ok := annotationAt[len(runes)]; ok {
		renderAnnotation(&b, text)
	}
	return b.String()
}

// ProjectEdits maps edit positions computed on the clean problem text back to
// original-string coordinates.
func ProjectEdits(edits []SemanticEdit, problem CleanString) []SemanticEdit {
	projected := make([]SemanticEdit, len(edits))
	for i, edit := range edits {
		edit.Position = problem.OriginalPos(edit.Position)
		if edit.PairPosition >= 0 {
			edit.PairPosition = problem.OriginalPos(edit.PairPosition)
		}
		projected[i] = edit
	}
	return projected
}

// ProjectAnnotations maps annotation positions computed on the clean problem
// text back to original-string coordinates.
func ProjectAnnotations(annotations []Annotation, problem CleanString) []Annotation {
	projected := make([]Annotation, len(annotations))
	for i, a := range annotations {
		a.Position = problem.OriginalPos(a.Position)
		projected[i] = a
	}
	return projected
}

// HighlightDifferences runs the whole pipeline for one (correct, problem)
// pair: clean both strings, classify the semantic edits on the clean texts,
// build annotations, project everything back onto the original problem text,
// and render it with the problem string's own whitespace defects highlighted.
func HighlightDifferences(correct, problem string) string {
	cleanCorrect := Analyze(correct)
	cleanProblem := Analyze(problem)

	edits := Classify(cleanCorrect.Clean, cleanProblem.Clean)
	annotations := BuildAnnotations(edits)

	return Render(
		problem,
		ProjectEdits(edits, cleanProblem),
		ProjectAnnotations(annotations, cleanProblem),
		cleanProblem.Whitespace,
	)
}

func renderSpan(b *strings.Builder, text, background, foreground string) {
	b.WriteString(`<span style="background-color: `)
	b.WriteString(background)
	b.WriteString(`; color: `)
	b.WriteString(foreground)
	b.WriteString(`; padding: 2px 4px; border-radius: 3px; font-weight: 500;">`)
	b.WriteString(text)
	b.WriteString(`</span>`)
}

func renderAnnotation(b *strings.Builder, text string) {
	b.WriteString(`<span style="color: `)
	b.WriteString(colorAnnotation)
	b.WriteString(`; font-size: 11px; font-weight: 400;">`)
	b.WriteString(text)
	b.WriteString(`</span>`)
}
