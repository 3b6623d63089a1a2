package textdiff

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		correct string
		problem string
		want    []SemanticEdit
	}{
		{
			name:    "identical",
			correct: "Revenue",
			problem: "Revenue",
			want:    nil,
		},
		{
			name:    "adjacent swap is one transposition",
			correct: "form",
			problem: "from",
			want: []SemanticEdit{
				{Kind: EditTransposition, Position: 1, Correct: 'o', Problem: 'r', PairPosition: 2},
			},
		},
		{
			name:    "missing rune",
			correct: "Revenue",
			problem: "Revenu",
			want: []SemanticEdit{
				{Kind: EditDeletion, Position: 6, Correct: 'e', PairPosition: -1},
			},
		},
		{
			name:    "extra rune",
			correct: "Revenue",
			problem: "Revenuee",
			want: []SemanticEdit{
				{Kind: EditInsertion, Position: 7, Problem: 'e', PairPosition: -1},
			},
		},
		{
			name:    "wrong rune",
			correct: "abc",
			problem: "axc",
			want: []SemanticEdit{
				{Kind: EditTypo, Position: 1, Correct: 'b', Problem: 'x', PairPosition: -1},
			},
		},
		{
			name:    "case only",
			correct: "Revenue",
			problem: "revenue",
			want: []SemanticEdit{
				{Kind: EditCaseOnly, Position: 0, Correct: 'R', Problem: 'r', PairPosition: -1},
			},
		},
		{
			name:    "whitespace differences are suppressed",
			correct: "A B",
			problem: "A  B",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.correct, tt.problem)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.correct, tt.problem, got, tt.want)
			}
		})
	}
}

func TestClassifyNoFalseTransposition(t *testing.T) {
	// "ab" vs "ba" swapped is a transposition, but "ab" vs "ca" is not: the
	// inserted and deleted runes are unrelated and must stay separate edits.
	got := Classify("ab", "ca")
	for _, edit := range got {
		if edit.Kind == EditTransposition {
			t.Fatalf("Classify(%q, %q) reported a transposition: %v", "ab", "ca", got)
		}
	}
}

func TestBuildAnnotations(t *testing.T) {
	edits := []SemanticEdit{
		{Kind: EditTypo, Position: 1, Correct: 'b', Problem: 'x', PairPosition: -1},
		{Kind: EditDeletion, Position: 6, Correct: 'e', PairPosition: -1},
		{Kind: EditInsertion, Position: 7, Problem: 'z', PairPosition: -1},
	}
	got := BuildAnnotations(edits)
	want := []Annotation{{Position: 6, Text: "[missing e]"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildAnnotations() = %v, want %v", got, want)
	}
}
