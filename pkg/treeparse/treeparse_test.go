package treeparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wide pads a row out to the conventional 12-column layout so alias and
// operator cells land in their columns.
func wide(cells ...string) []string {
	row := make([]string, 12)
	copy(row, cells)
	return row
}

func TestParseSimpleTree(t *testing.T) {
	grid := [][]string{
		{"Level 1", "Level 2", "Level 3"},
		{"Total"},
		{"", "Revenue"},
		{"", "", "Product Sales"},
		{"", "Costs"},
	}

	result := New().Parse(grid)
	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 4)

	assert.Equal(t, Row{Member: "Total", Operator: "+", Depth: 0, Source: 2}, result.Rows[0])
	assert.Equal(t, Row{Member: "Revenue", Parent: "Total", Operator: "+", Depth: 1, Source: 3}, result.Rows[1])
	assert.Equal(t, Row{Member: "Product Sales", Parent: "Revenue", Operator: "+", Depth: 2, Source: 4}, result.Rows[2])
	assert.Equal(t, Row{Member: "Costs", Parent: "Total", Operator: "+", Depth: 1, Source: 5}, result.Rows[3])

	assert.Equal(t, 4, result.Stats.Members)
	assert.Equal(t, 2, result.Stats.MaxDepth)
	assert.Equal(t, 2, result.Stats.Leaves)
}

func TestParseWithoutHeader(t *testing.T) {
	result := New().Parse([][]string{{"Total"}, {"", "Revenue"}})
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 1, result.Rows[0].Source, "no header means rows start at source row 1")
}

func TestParseMissingParent(t *testing.T) {
	result := New().Parse([][]string{{"", "Orphaned"}})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrMissingParent, result.Errors[0].Kind)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Equal(t,
		`"Orphaned" at level 1 has no parent at level 0. Add a parent member at level 0, then resubmit.`,
		result.Errors[0].Message)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, result.Stats.Members)
}

func TestParseSkippedLevel(t *testing.T) {
	result := New().Parse([][]string{
		{"Total"},
		{"", "", "Deep"},
	})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrSkippedLevel, result.Errors[0].Kind)
	assert.Equal(t,
		`Cannot skip hierarchy levels. "Deep" is at level 2, but there's no parent at level 1. Add a level 1 parent, then resubmit.`,
		result.Errors[0].Message)
	require.Len(t, result.Rows, 1, "the valid root is still emitted")
}

func TestParseMultipleRootsHalts(t *testing.T) {
	result := New().Parse([][]string{
		{"A"},
		{"", "B"},
		{"C"},
		{"", "D"},
	})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrMultipleRoots, result.Errors[0].Kind)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t,
		`File contains multiple root nodes ("A" and "C"). Please split into separate files - one for each root - and submit individually.`,
		result.Errors[0].Message)

	assert.True(t, result.Halted())
	assert.Len(t, result.Rows, 2, "rows after the second root are not processed")
	assert.Equal(t, 2, result.Stats.Members)
}

func TestParseRepeatedMemberNavigation(t *testing.T) {
	result := New().Parse([][]string{
		{"Total"},
		{"", "Shared"},
		{"", "Other"},
		{"", "", "Shared"},
	})

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 4, "the navigation reference is still emitted")
	assert.Equal(t, "Other", result.Rows[3].Parent)
	assert.Equal(t, 3, result.Stats.Members, "a repeated name creates no new node")

	require.Len(t, result.Warnings, 1)
	w := result.Warnings[0]
	assert.Equal(t, WarnRepeatedMember, w.Kind)
	assert.Equal(t, []int{2, 4}, w.Rows)
	assert.Equal(t, `Member "Shared" appears 2 times (used for navigation)`, w.Message)

	tree := result.Visualize()
	assert.Contains(t, tree, "Shared (shared)")
}

func TestParseWarnings(t *testing.T) {
	grid := [][]string{
		{" Total "},
		wide("", "Revenue", "", "", "", "", "", "", "", "", "Rev", "x"),
		{"", ""},
		wide("", "Costs", "", "", "", "", "", "", "", "", "", "~"),
	}

	result := New().Parse(grid)
	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 3)

	assert.Equal(t, "Total", result.Rows[0].Member, "cell whitespace is trimmed")
	assert.Equal(t, "+", result.Rows[1].Operator, "invalid operator falls back to +")
	assert.Equal(t, "Rev", result.Rows[1].Alias)
	assert.Equal(t, "~", result.Rows[2].Operator)

	kinds := make(map[WarningKind]string)
	for _, w := range result.Warnings {
		kinds[w.Kind] = w.Message
	}
	assert.Equal(t, "Auto-trimmed leading/trailing whitespace", kinds[WarnWhitespaceTrimmed])
	assert.Equal(t, `Invalid operator "x" (must be +, -, or ~). Defaulting to '+'`, kinds[WarnInvalidOperator])
	assert.Equal(t, "Skipped 1 empty row", kinds[WarnEmptyRows])
	assert.Len(t, result.Warnings, 3)
}

func TestResultTable(t *testing.T) {
	result := New().Parse([][]string{
		{"Total"},
		{"", "Revenue"},
	})

	table := result.Table("Account", "+")
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Account", table.Rows[0].Dim)
	assert.Equal(t, "+", table.Rows[0].Cmd)
	assert.Equal(t, 0, table.Rows[0].Source, "sources are re-indexed to output positions")
	assert.Equal(t, 1, table.Rows[1].Source)
	assert.Equal(t, "Total", table.Rows[1].Parent)
}

func TestVisualize(t *testing.T) {
	result := New().Parse([][]string{
		{"Total"},
		{"", "Revenue"},
		{"", "", "Product Sales"},
		{"", "Costs"},
	})

	tree := result.Visualize()
	lines := strings.Split(tree, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Total", lines[0])
	assert.Equal(t, "├── Revenue", lines[1])
	assert.Equal(t, "│   └── Product Sales", lines[2])
	assert.Equal(t, "└── Costs", lines[3])
}

func TestVisualizeEmpty(t *testing.T) {
	assert.Equal(t, "No members to display", Result{}.Visualize())
}
