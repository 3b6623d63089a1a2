package textdiff

// Annotation is an inline text marker scheduled before a position in the
// problem text.
type Annotation struct {
	Position int
	Text     string
}

// BuildAnnotations returns the inline annotations for a set of semantic
// edits. Only deletions get one: a missing rune leaves no visible trace in
// the problem string to highlight, so "[missing x]" points at the gap.
// Typos, insertions and transpositions are self-evident once highlighted and
// stay silent.
func BuildAnnotations(edits []SemanticEdit) []Annotation {
	var annotations []Annotation
	for _, edit := range edits {
		if edit.Kind == EditDeletion {
			annotations = append(annotations, Annotation{
				Position: edit.Position,
				Text:     "[missing " + string(edit.Correct) + "]",
			})
		}
	}
	return annotations
}
