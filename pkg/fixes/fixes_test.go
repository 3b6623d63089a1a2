package fixes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venalab/hiervet/pkg/hierarchy"
	"github.com/venalab/hiervet/pkg/validate"
)

func TestBuildGroupsVariationsByCorrectText(t *testing.T) {
	result := validate.Result{
		Mismatches: []validate.Mismatch{
			{
				CorrectMember: "Revenue",
				ParentRef:     " Revenu",
				Children:      []validate.ChildRef{{Row: 3, Parent: " Revenu"}},
			},
		},
		Whitespace: []validate.WhitespaceIssue{
			{Column: validate.ColumnMember, Text: "Revenue ", Rows: []int{1}},
			{Column: validate.ColumnMember, Text: "Net  Income", Rows: []int{5}},
		},
	}

	groups := Build(result)
	require.Len(t, groups, 2)

	// Groups are ordered by their first affected row.
	g := groups[0]
	assert.Equal(t, "Revenue", g.Correct)
	assert.Equal(t, []int{1, 3}, g.AllRows)
	require.Len(t, g.Variations, 2, "the mismatch and the whitespace text collapse to one fix")
	assert.Equal(t, "Revenue ", g.Variations[0].Problem)
	assert.Equal(t, []int{1}, g.Variations[0].Rows)
	assert.False(t, g.Variations[0].HasTypo)
	assert.Equal(t, " Revenu", g.Variations[1].Problem)
	assert.Equal(t, []int{3}, g.Variations[1].Rows)
	assert.True(t, g.Variations[1].HasTypo)
	assert.True(t, g.HasTypo())

	assert.Equal(t, "Net Income", groups[1].Correct)
	assert.False(t, groups[1].HasTypo())
}

func TestAssignRowsPrefersMoreSpecificVariation(t *testing.T) {
	// Row 5 is claimed by both a whitespace-only variation and one that also
	// carries a typo; the variation with more defect kinds wins.
	result := validate.Result{
		Mismatches: []validate.Mismatch{
			{
				CorrectMember: "Revenue",
				ParentRef:     "Revenu ",
				Children:      []validate.ChildRef{{Row: 5, Parent: "Revenu "}},
			},
		},
		Whitespace: []validate.WhitespaceIssue{
			{Column: validate.ColumnParent, Text: "Revenue ", Rows: []int{5}},
		},
	}

	groups := Build(result)
	require.Len(t, groups, 1)

	byProblem := make(map[string][]int)
	for _, v := range groups[0].Variations {
		byProblem[v.Problem] = v.Rows
	}
	assert.Equal(t, []int{5}, byProblem["Revenu "])
	assert.Empty(t, byProblem["Revenue "], "the less specific variation loses the shared row")
}

func TestSubstitutions(t *testing.T) {
	groups := []Group{
		{Correct: "Revenue", Variations: []Variation{
			{Problem: " Revenu"},
			{Problem: "Revenue "},
		}},
	}
	subs := Substitutions(groups)
	assert.Equal(t, map[string]string{
		" Revenu":  "Revenue",
		"Revenue ": "Revenue",
	}, subs)
}

func TestApply(t *testing.T) {
	table := hierarchy.Table{Rows: []hierarchy.Row{
		{Member: "Revenue ", Source: 0},
		{Member: "Sales", Parent: " Revenu", Source: 1},
		{Member: "Costs", Parent: "Total", Source: 2},
	}}
	subs := map[string]string{" Revenu": "Revenue", "Revenue ": "Revenue"}

	fixed := Apply(table, subs)
	assert.Equal(t, "Revenue", fixed.Rows[0].Member)
	assert.Equal(t, "Revenue", fixed.Rows[1].Parent)
	assert.Equal(t, "Total", fixed.Rows[2].Parent, "unaffected cells pass through")
	assert.Equal(t, "Revenue ", table.Rows[0].Member, "the input table is not mutated")
}

func TestCleanWhitespace(t *testing.T) {
	table := hierarchy.Table{Rows: []hierarchy.Row{
		{Member: " Revenue ", Parent: "Net\tIncome", Source: 0},
		{Member: "Costs", Parent: "Total  Expenses", Source: 1},
	}}

	cleaned := CleanWhitespace(table)
	assert.Equal(t, "Revenue", cleaned.Rows[0].Member)
	assert.Equal(t, "Net Income", cleaned.Rows[0].Parent)
	assert.Equal(t, "Total Expenses", cleaned.Rows[1].Parent)
	assert.Equal(t, " Revenue ", table.Rows[0].Member, "the input table is not mutated")
}

func TestApplyThenRevalidateIsClean(t *testing.T) {
	table := hierarchy.Table{Rows: []hierarchy.Row{
		{Member: "Revenue", Source: 0},
		{Member: "Sales", Parent: " Revenu", Source: 1},
	}}

	engine := validate.New()
	result := engine.Validate(table)
	require.NotEmpty(t, result.Mismatches)

	fixed := Apply(table, Substitutions(Build(result)))
	clean := engine.Validate(fixed)
	assert.Empty(t, clean.Mismatches)
	assert.Empty(t, clean.OrphanErrors)
	assert.Empty(t, clean.OrphanWarnings)
	assert.Empty(t, clean.Whitespace)
}
