// Package fixes derives mechanical corrections from a validation result: a
// (problem text -> correct text) substitution map covering whitespace issues
// and fuzzy parent mismatches, presented as fix groups where every variation
// of the same intended name collapses to one fix.
package fixes

import (
	"sort"
	"strings"

	"github.com/venalab/hiervet/pkg/hierarchy"
	"github.com/venalab/hiervet/pkg/textdiff"
	"github.com/venalab/hiervet/pkg/validate"
)

// Variation is one distinct problem text that resolves to a group's correct
// text, with the rows assigned to it.
type Variation struct {
	Problem string
	Rows    []int
	HasTypo bool // a character difference beyond whitespace
}

// Group is a set of variations sharing one normalized correct text.
type Group struct {
	Correct    string
	Variations []Variation
	AllRows    []int
}

// HasTypo reports whether any variation in the group is a character typo.
func (g Group) HasTypo() bool {
	for _, v := range g.Variations {
		if v.HasTypo {
			return true
		}
	}
	return false
}

// Build collects every fixable problem text from the result and groups the
// variations by case-folded normalized correct text: " Revenue", "revenue"
// and "Revenu" are three variations of the same fix. Parent mismatches
// contribute their mismatched reference with the matched member as the
// correction; whitespace issues contribute their text with its own normalized
// form as the correction, merging rows when the same text was already seen.
func Build(result validate.Result) []Group {
	type problem struct {
		correct string
		rows    map[int]bool
		hasTypo bool
	}
	byText := make(map[string]*problem)
	var textOrder []string

	record := func(problemText, correctText string, rows []int, hasTypo bool) {
		p, ok := byText[problemText]
		if !ok {
			p = &problem{correct: correctText, rows: make(map[int]bool), hasTypo: hasTypo}
			byText[problemText] = p
			textOrder = append(textOrder, problemText)
		}
		for _, r := range rows {
			p.rows[r] = true
		}
	}

	for _, m := range result.Mismatches {
		rows := make([]int, len(m.Children))
		for i, child := range m.Children {
			rows[i] = child.Row
		}
		hasTypo := hierarchy.NormalizeName(m.CorrectMember) != hierarchy.NormalizeName(m.ParentRef)
		record(m.ParentRef, m.CorrectMember, rows, hasTypo)
	}
	for _, issue := range result.Whitespace {
		record(issue.Text, hierarchy.NormalizeName(issue.Text), issue.Rows, false)
	}

	type rawGroup struct {
		correct    string
		variations []Variation
		allRows    map[int]bool
	}
	byKey := make(map[string]*rawGroup)
	var keyOrder []string

	for _, text := range textOrder {
		p := byText[text]
		key := strings.ToLower(hierarchy.NormalizeName(p.correct))
		g, ok := byKey[key]
		if !ok {
			g = &rawGroup{correct: p.correct, allRows: make(map[int]bool)}
			byKey[key] = g
			keyOrder = append(keyOrder, key)
		}
		g.variations = append(g.variations, Variation{
			Problem: text,
			Rows:    sortedKeys(p.rows),
			HasTypo: p.hasTypo,
		})
		for r := range p.rows {
			g.allRows[r] = true
		}
	}

	groups := make([]Group, 0, len(keyOrder))
	for _, key := range keyOrder {
		g := byKey[key]
		groups = append(groups, Group{
			Correct:    g.correct,
			Variations: assignRows(g.variations),
			AllRows:    sortedKeys(g.allRows),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return firstRow(groups[i].AllRows) < firstRow(groups[j].AllRows)
	})
	return groups
}

// assignRows gives each row to its most specific variation: a variation with
// both a typo and whitespace defects beats one with only one kind of defect.
// Ties keep the first assignment. Variations are then ordered by first
// assigned row, empty ones last.
func assignRows(variations []Variation) []Variation {
	type assignment struct {
		variation int
		issues    int
	}
	assigned := make(map[int]assignment)
	for i, v := range variations {
		issues := 0
		if v.HasTypo {
			issues++
		}
		if textdiff.HasWhitespaceDefect(v.Problem) {
			issues++
		}
		for _, row := range v.Rows {
			current, ok := assigned[row]
			if !ok || issues > current.issues {
				assigned[row] = assignment{variation: i, issues: issues}
			}
		}
	}

	result := make([]Variation, len(variations))
	for i, v := range variations {
		var rows []int
		for row, a := range assigned {
			if a.variation == i {
				rows = append(rows, row)
			}
		}
		sort.Ints(rows)
		v.Rows = rows
		result[i] = v
	}
	sort.SliceStable(result, func(i, j int) bool {
		return firstRow(result[i].Rows) < firstRow(result[j].Rows)
	})
	return result
}

// Substitutions flattens fix groups into the problem -> correct map the
// corrected-file export applies.
func Substitutions(groups []Group) map[string]string {
	subs := make(map[string]string)
	for _, g := range groups {
		for _, v := range g.Variations {
			subs[v.Problem] = g.Correct
		}
	}
	return subs
}

// Apply returns a copy of the table with every member and parent cell that
// exactly equals a problem text replaced by its correction.
func Apply(table hierarchy.Table, subs map[string]string) hierarchy.Table {
	fixed := hierarchy.Table{Rows: make([]hierarchy.Row, len(table.Rows))}
	for i, row := range table.Rows {
		if correct, ok := subs[row.Member]; ok {
			row.Member = correct
		}
		if correct, ok := subs[row.Parent]; ok {
			row.Parent = correct
		}
		fixed.Rows[i] = row
	}
	return fixed
}

// CleanWhitespace returns a copy of the table with every member and parent
// cell whitespace-normalized: stripped, tabs to spaces, internal runs
// collapsed. Unlike Apply this touches every cell, not just flagged texts.
func CleanWhitespace(table hierarchy.Table) hierarchy.Table {
	cleaned := hierarchy.Table{Rows: make([]hierarchy.Row, len(table.Rows))}
	for i, row := range table.Rows {
		row.Member = hierarchy.NormalizeName(row.Member)
		row.Parent = hierarchy.NormalizeName(row.Parent)
		cleaned.Rows[i] = row
	}
	return cleaned
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func firstRow(rows []int) int {
	if len(rows) == 0 {
		return int(^uint(0) >> 1)
	}
	return rows[0]
}
