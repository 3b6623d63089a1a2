package validate

import (
	"fmt"
	"strings"

	"github.com/venalab/hiervet/pkg/textdiff"
)

// DiffCategory is the high-level classification of how a problem string
// differs from the string it should have been.
type DiffCategory string

const (
	// DiffWhitespace means every difference touches only whitespace.
	DiffWhitespace DiffCategory = "whitespace"
	// DiffCapitalization means the strings are equal ignoring case.
	DiffCapitalization DiffCategory = "capitalization"
	// DiffTypo means at least one real character difference exists.
	DiffTypo DiffCategory = "typo"
)

// Difference is the classified gap between a correct string and a problem
// string, with a positional explanation a reviewer can act on.
type Difference struct {
	Category    DiffCategory
	Explanation string
	Whitespace  bool // the difference is whitespace-only
	VenaInvalid bool // involves leading/trailing/tab, which the platform rejects
}

// ClassifyDifference is the single place that decides whether a near-match is
// a whitespace problem, a capitalization problem, or a genuine typo. Every
// caller that needs "is this whitespace-only" goes through here rather than
// re-deriving it.
func ClassifyDifference(correct, problem string) Difference {
	if normalize(correct) == normalize(problem) {
		defects := textdiff.DescribeDefects(problem)
		if len(defects) == 0 {
			// Whitespace differs but the problem string itself is clean;
			// the correct string must carry the defect. Still whitespace.
			defects = textdiff.DescribeDefects(correct)
		}
		return Difference{
			Category:    DiffWhitespace,
			Explanation: "whitespace: " + strings.Join(defects, ", "),
			Whitespace:  true,
			VenaInvalid: textdiff.VenaInvalidWhitespace(problem),
		}
	}

	if strings.EqualFold(correct, problem) {
		return Difference{
			Category:    DiffCapitalization,
			Explanation: fmt.Sprintf("capitalization: %q should be %q", problem, correct),
		}
	}

	cleanCorrect := textdiff.Analyze(correct).Clean
	cleanProblem := textdiff.Analyze(problem).Clean
	edits := textdiff.Classify(cleanCorrect, cleanProblem)

	explanation := "typo"
	switch {
	case len(edits) == 1:
		edit := edits[0]
		switch edit.Kind {
		case textdiff.EditDeletion:
			explanation = fmt.Sprintf("typo: missing '%c' at position %d", edit.Correct, edit.Position)
		case textdiff.EditInsertion:
			explanation = fmt.Sprintf("typo: extra '%c' at position %d", edit.Problem, edit.Position)
		case textdiff.EditTransposition:
			explanation = fmt.Sprintf("typo: '%c' and '%c' swapped at position %d", edit.Problem, edit.Correct, edit.Position)
		default:
			explanation = fmt.Sprintf("typo: '%c' should be '%c' at position %d", edit.Problem, edit.Correct, edit.Position)
		}
	case len(edits) > 1:
		explanation = fmt.Sprintf("typo: %d character differences", len(edits))
	}

	return Difference{
		Category:    DiffTypo,
		Explanation: explanation,
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
