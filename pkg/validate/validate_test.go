package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venalab/hiervet/pkg/hierarchy"
)

// makeTable builds a table assigning each row its position as Source.
func makeTable(rows ...hierarchy.Row) hierarchy.Table {
	for i := range rows {
		rows[i].Source = i
	}
	return hierarchy.Table{Rows: rows}
}

func TestFindOrphans(t *testing.T) {
	table := makeTable(
		hierarchy.Row{Member: "Revenue"},
		hierarchy.Row{Member: "Product Sales", Parent: " Revenu"},
		hierarchy.Row{Member: "Costs", Parent: "Imported Totals"},
		hierarchy.Row{Member: "Fees", Parent: "Imported Totals"},
		hierarchy.Row{Member: "Misc", Parent: "Bad  Parent "},
	)

	orphans := New().FindOrphans(table)
	require.Len(t, orphans, 2, "fuzzy-matched references are not orphans")

	assert.Equal(t, "Imported Totals", orphans[0].Parent)
	assert.Equal(t, []int{2, 3}, orphans[0].Rows)
	assert.False(t, orphans[0].HasWhitespace)

	assert.Equal(t, "Bad  Parent ", orphans[1].Parent)
	assert.True(t, orphans[1].HasWhitespace)
	assert.True(t, orphans[1].VenaInvalid)
}

func TestValidateSplitsOrphansBySeverity(t *testing.T) {
	table := makeTable(
		hierarchy.Row{Member: "Revenue"},
		hierarchy.Row{Member: "Costs", Parent: "Imported Totals"},
		hierarchy.Row{Member: "Misc", Parent: "Bad  Parent "},
	)

	result := New().Validate(table)
	require.Len(t, result.OrphanErrors, 1)
	require.Len(t, result.OrphanWarnings, 1)
	assert.Equal(t, "Bad  Parent ", result.OrphanErrors[0].Parent)
	assert.Equal(t, "Imported Totals", result.OrphanWarnings[0].Parent)
}

func TestFindMismatches(t *testing.T) {
	table := makeTable(
		hierarchy.Row{Member: "Revenue", Alias: "Rev"},
		hierarchy.Row{Member: "Product Sales", Parent: " Revenu"},
		hierarchy.Row{Member: "Service Fees", Parent: " Revenu"},
	)

	mismatches := New().FindMismatches(table)
	require.Len(t, mismatches, 1)

	m := mismatches[0]
	assert.Equal(t, "Revenue", m.CorrectMember)
	assert.Equal(t, "Rev", m.CorrectAlias)
	assert.Equal(t, 0, m.CorrectRow)
	assert.Equal(t, " Revenu", m.ParentRef)
	assert.Equal(t, DiffTypo, m.Difference.Category)
	assert.Equal(t, "typo: missing 'e' at position 6", m.Difference.Explanation)

	require.Len(t, m.Children, 2, "children are collected by exact parent string")
	assert.Equal(t, 1, m.Children[0].Row)
	assert.Equal(t, "Product Sales", m.Children[0].Member)
	assert.Equal(t, 2, m.Children[1].Row)
}

func TestFindMismatchesWhitespaceOnly(t *testing.T) {
	table := makeTable(
		hierarchy.Row{Member: "Revenue"},
		hierarchy.Row{Member: "Interest", Parent: " Revenue"},
	)

	mismatches := New().FindMismatches(table)
	require.Len(t, mismatches, 1)
	assert.Equal(t, DiffWhitespace, mismatches[0].Difference.Category)
	assert.True(t, mismatches[0].Difference.Whitespace)
	assert.True(t, mismatches[0].Difference.VenaInvalid)
}

func TestFindDuplicates(t *testing.T) {
	table := makeTable(
		hierarchy.Row{Member: "Cash"},
		hierarchy.Row{Member: "Cash"},
		hierarchy.Row{Member: "Widgets", Parent: "Cash"},
		hierarchy.Row{Member: "Leaf"},
		hierarchy.Row{Member: "Leaf"},
	)

	errors, warnings := New().FindDuplicates(table)

	require.Len(t, errors, 1, "referenced duplicate is an error")
	assert.Equal(t, "Cash", errors[0].Member)
	assert.Equal(t, 1, errors[0].Children)
	require.Len(t, errors[0].Instances, 2)
	assert.Equal(t, 0, errors[0].Instances[0].Row)
	assert.Equal(t, 1, errors[0].Instances[1].Row)

	require.Len(t, warnings, 1, "unreferenced duplicate is a warning")
	assert.Equal(t, "Leaf", warnings[0].Member)
	assert.Equal(t, 0, warnings[0].Children)
}

func TestValidateCaseSensitiveMembers(t *testing.T) {
	// "B" and "b" are distinct members: duplicate grouping is case-sensitive,
	// and their rows reference an exactly existing parent, so a full run
	// reports nothing at all.
	table := makeTable(
		hierarchy.Row{Member: "A"},
		hierarchy.Row{Member: "B", Parent: "A"},
		hierarchy.Row{Member: "b", Parent: "A"},
	)

	result := New().Validate(table)
	assert.Empty(t, result.DuplicateErrors)
	assert.Empty(t, result.DuplicateWarnings)
	assert.Empty(t, result.OrphanErrors)
	assert.Empty(t, result.OrphanWarnings)
	assert.Empty(t, result.Mismatches)
	assert.Empty(t, result.Whitespace)
	assert.Empty(t, result.Lengths)
}

func TestFindWhitespaceIssuesGroupsByText(t *testing.T) {
	table := makeTable(
		hierarchy.Row{Member: "Net  Income"},
		hierarchy.Row{Member: "Revenue"},
		hierarchy.Row{Member: "Net  Income"},
	)

	issues := New().FindWhitespaceIssues(table, nil, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, ColumnMember, issues[0].Column)
	assert.Equal(t, "Net  Income", issues[0].Text)
	assert.Equal(t, []int{0, 2}, issues[0].Rows)
	assert.Equal(t, []string{"1 double space"}, issues[0].Defects)
}

func TestValidateSkipsWhitespaceAlreadyFlagged(t *testing.T) {
	// The mismatched parent " Revenu" has a leading space but is already
	// reported by the mismatch check; the whitespace scan must not repeat it.
	table := makeTable(
		hierarchy.Row{Member: "Revenue"},
		hierarchy.Row{Member: "Product Sales", Parent: " Revenu"},
	)

	result := New().Validate(table)
	require.Len(t, result.Mismatches, 1)
	assert.Empty(t, result.Whitespace)
}

func TestFindLengthViolations(t *testing.T) {
	long := strings.Repeat("a", 81)
	table := makeTable(
		hierarchy.Row{Member: "Revenue"},
		hierarchy.Row{Member: long, Parent: "Revenue"},
	)

	violations := New().FindLengthViolations(table)
	require.Len(t, violations, 1)
	assert.Equal(t, 1, violations[0].Row)
	assert.Equal(t, ColumnMember, violations[0].Column)
	assert.Equal(t, 81, violations[0].Length)
	assert.Equal(t, "Member exceeds 80 chars (81 chars)", violations[0].Cause())
}

func TestWithMaxDistance(t *testing.T) {
	table := makeTable(
		hierarchy.Row{Member: "Revenue"},
		hierarchy.Row{Member: "Sales", Parent: "Revenu"},
	)

	// Distance 1 reference: a mismatch by default, an orphan at bound 0.
	strict := New(WithMaxDistance(0))
	assert.Empty(t, strict.FindMismatches(table))
	assert.Len(t, strict.FindOrphans(table), 1)

	assert.Len(t, New().FindMismatches(table), 1)
}

func TestClassifyDifference(t *testing.T) {
	tests := []struct {
		name        string
		correct     string
		problem     string
		category    DiffCategory
		explanation string
	}{
		{
			name:        "missing rune",
			correct:     "Revenue",
			problem:     "Revenu",
			category:    DiffTypo,
			explanation: "typo: missing 'e' at position 6",
		},
		{
			name:        "extra rune",
			correct:     "Revenue",
			problem:     "Revenuee",
			category:    DiffTypo,
			explanation: "typo: extra 'e' at position 7",
		},
		{
			name:        "swapped runes",
			correct:     "form",
			problem:     "from",
			category:    DiffTypo,
			explanation: "typo: 'r' and 'o' swapped at position 1",
		},
		{
			name:        "wrong rune",
			correct:     "abc",
			problem:     "axc",
			category:    DiffTypo,
			explanation: "typo: 'x' should be 'b' at position 1",
		},
		{
			name:        "several differences",
			correct:     "abcd",
			problem:     "axyd",
			category:    DiffTypo,
			explanation: "typo: 2 character differences",
		},
		{
			name:        "leading space",
			correct:     "Revenue",
			problem:     " Revenue",
			category:    DiffWhitespace,
			explanation: "whitespace: leading space",
		},
		{
			name:        "capitalization",
			correct:     "Revenue",
			problem:     "revenue",
			category:    DiffCapitalization,
			explanation: `capitalization: "revenue" should be "Revenue"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ClassifyDifference(tt.correct, tt.problem)
			assert.Equal(t, tt.category, d.Category)
			assert.Equal(t, tt.explanation, d.Explanation)
		})
	}
}
