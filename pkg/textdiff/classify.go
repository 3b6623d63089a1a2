package textdiff

import "strings"

// EditKind is the semantic classification of a character-level difference:
// what actually happened, as opposed to the raw operation that repairs it.
type EditKind int

const (
	// EditTransposition means two adjacent runes are swapped.
	EditTransposition EditKind = iota
	// EditTypo means a rune is wrong.
	EditTypo
	// EditDeletion means a rune is missing from the problem text.
	EditDeletion
	// EditInsertion means an extra rune is present in the problem text.
	EditInsertion
	// EditCaseOnly means the strings differ only in letter case.
	EditCaseOnly
)

// String returns the kind name used in causes and logs.
func (k EditKind) String() string {
	switch k {
	case EditTransposition:
		return "transposition"
	case EditTypo:
		return "typo"
	case EditDeletion:
		return "deletion"
	case EditInsertion:
		return "insertion"
	case EditCaseOnly:
		return "capitalization"
	default:
		return "unknown"
	}
}

// SemanticEdit is one human-meaningful difference between a correct string
// and a problem string. Positions are rune indexes into the problem text.
type SemanticEdit struct {
	Kind     EditKind
	Position int
	Correct  rune // the rune that should be there; 0 for insertions
	Problem  rune // the rune that is there; 0 for deletions
	// PairPosition is the problem-text position of the second rune of a
	// transposition; -1 otherwise.
	PairPosition int
}

// Classify compares a correct string against a problem string and returns the
// ordered semantic edits between them. Both inputs are expected to be
// whitespace-cleaned already; any raw operation touching whitespace is
// suppressed here because whitespace defects are reported from the cleaner's
// maps, never as character edits.
//
// A raw insert immediately followed by a delete is inspected with one step of
// look-ahead: when the two runes are adjacent in the source and exactly
// swapped, both operations are consumed and a single transposition is emitted.
// Naive Levenshtein would otherwise report a swap as an unrelated
// "extra X, missing Y" pair.
//
// Identical strings return nil. Strings differing only in case return a
// case-only edit per differing position instead of per-character typos.
func Classify(correct, problem string) []SemanticEdit {
	if correct == problem {
		return nil
	}
	if strings.EqualFold(correct, problem) {
		return caseOnlyEdits(correct, problem)
	}

	correctRunes := []rune(correct)
	problemRunes := []rune(problem)
	ops := EditOps(correct, problem)

	var edits []SemanticEdit
	for i := 0; i < len(ops); i++ {
		op := ops[i]

		if op.Kind == OpInsert && i+1 < len(ops) && ops[i+1].Kind == OpDelete {
			if t, ok := transposition(correctRunes, problemRunes, op, ops[i+1]); ok {
				edits = append(edits, t)
				i++ // consume the delete as well
				continue
			}
		}

		switch op.Kind {
		case OpDelete:
			if op.SrcPos < len(correctRunes) && !isSpace(correctRunes[op.SrcPos]) {
				edits = append(edits, SemanticEdit{
					Kind:         EditDeletion,
					Position:     op.DestPos,
					Correct:      correctRunes[op.SrcPos],
					PairPosition: -1,
				})
			}
		case OpReplace:
			if op.SrcPos < len(correctRunes) && op.DestPos < len(problemRunes) {
				c, p := correctRunes[op.SrcPos], problemRunes[op.DestPos]
				if !isSpace(c) && !isSpace(p) {
					edits = append(edits, SemanticEdit{
						Kind:         EditTypo,
						Position:     op.DestPos,
						Correct:      c,
						Problem:      p,
						PairPosition: -1,
					})
				}
			}
		case OpInsert:
			if op.DestPos < len(problemRunes) && !isSpace(problemRunes[op.DestPos]) {
				edits = append(edits, SemanticEdit{
					Kind:         EditInsertion,
					Position:     op.DestPos,
					Problem:      problemRunes[op.DestPos],
					PairPosition: -1,
				})
			}
		}
	}
	return edits
}

// transposition checks whether an insert+delete pair is really an adjacent
// swap: the runes must be adjacent in the source, must not be whitespace, and
// must be exactly exchanged.
func transposition(correct, problem []rune, ins, del Op) (SemanticEdit, bool) {
	if ins.SrcPos+1 >= len(correct) || ins.DestPos+1 >= len(problem) {
		return SemanticEdit{}, false
	}
	if del.SrcPos != ins.SrcPos+1 {
		return SemanticEdit{}, false
	}

	c1, c2 := correct[ins.SrcPos], correct[ins.SrcPos+1]
	p1, p2 := problem[ins.DestPos], problem[ins.DestPos+1]
	if isSpace(c1) || isSpace(c2) {
		return SemanticEdit{}, false
	}
	if c1 != p2 || c2 != p1 {
		return SemanticEdit{}, false
	}
	return SemanticEdit{
		Kind:         EditTransposition,
		Position:     ins.DestPos,
		Correct:      c1,
		Problem:      p1,
		PairPosition: ins.DestPos + 1,
	}, true
}

// caseOnlyEdits emits one case-only edit per position where the runes differ.
func caseOnlyEdits(correct, problem string) []SemanticEdit {
	correctRunes := []rune(correct)
	problemRunes := []rune(problem)
	var edits []SemanticEdit
	for i := 0; i < len(problemRunes) && i < len(correctRunes); i++ {
		if correctRunes[i] != problemRunes[i] {
			edits = append(edits, SemanticEdit{
				Kind:         EditCaseOnly,
				Position:     i,
				Correct:      correctRunes[i],
				Problem:      problemRunes[i],
				PairPosition: -1,
			})
		}
	}
	return edits
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
