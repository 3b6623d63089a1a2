package families

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/venalab/hiervet/pkg/hierarchy"
	"github.com/venalab/hiervet/pkg/textdiff"
	"github.com/venalab/hiervet/pkg/validate"
)

// Collect flattens a validation result into the uniform finding list, in the
// fixed order downstream numbering depends on: orphan errors, parent
// mismatches, duplicate errors, duplicate warnings, orphan warnings,
// whitespace issues, length violations.
//
// A malformed record from any one check is logged and skipped rather than
// aborting the run; one bad record degrades completeness of the report, not
// the correctness of the rest.
func Collect(result validate.Result, logger zerolog.Logger) []hierarchy.Finding {
	var findings []hierarchy.Finding

	for _, orphan := range result.OrphanErrors {
		if orphan.Parent == "" || len(orphan.Rows) == 0 {
			logger.Warn().Str("parent", orphan.Parent).Msg("skipping malformed orphan error")
			continue
		}
		findings = append(findings, hierarchy.Finding{
			Severity: hierarchy.Error,
			Category: hierarchy.CategoryOrphan,
			Member:   hierarchy.NoName,
			Parent:   orphan.Parent,
			Cause:    "Parent doesn't exist as member",
			Rows:     orphan.Rows,
		})
		// The orphan string itself is malformed; surface the whitespace
		// defects as a companion warning. Grouping folds both into one family.
		findings = append(findings, hierarchy.Finding{
			Severity: hierarchy.Warning,
			Category: hierarchy.CategoryWhitespace,
			Member:   hierarchy.NoName,
			Parent:   orphan.Parent,
			Cause:    "Parent name: " + strings.Join(textdiff.DescribeDefects(orphan.Parent), ", "),
			Rows:     orphan.Rows,
		})
	}

	for _, m := range result.Mismatches {
		if m.CorrectMember == "" || m.ParentRef == "" || len(m.Children) == 0 {
			logger.Warn().Str("parent_ref", m.ParentRef).Msg("skipping malformed parent mismatch")
			continue
		}
		rows := make([]int, len(m.Children))
		for i, child := range m.Children {
			rows[i] = child.Row
		}
		member := hierarchy.DisplayName(m.CorrectMember, m.CorrectAlias)
		if m.Difference.Whitespace {
			// A whitespace-only near-match is a whitespace problem, not a
			// naming error; report it in whitespace terms so it is not
			// double-counted as a mismatch.
			findings = append(findings, hierarchy.Finding{
				Severity: hierarchy.Warning,
				Category: hierarchy.CategoryWhitespace,
				Member:   member,
				Parent:   m.ParentRef,
				Cause:    "Parent name: " + strings.Join(textdiff.DescribeDefects(m.ParentRef), ", "),
				Rows:     rows,
			})
			continue
		}
		findings = append(findings, hierarchy.Finding{
			Severity: hierarchy.Error,
			Category: hierarchy.CategoryMismatch,
			Member:   member,
			Parent:   m.ParentRef,
			Cause:    m.Difference.Explanation,
			Rows:     rows,
		})
	}

	for _, dup := range result.DuplicateErrors {
		if dup.Member == "" || len(dup.Instances) < 2 {
			logger.Warn().Str("member", dup.Member).Msg("skipping malformed duplicate error")
			continue
		}
		findings = append(findings, hierarchy.Finding{
			Severity: hierarchy.Error,
			Category: hierarchy.CategoryDuplicate,
			Member:   hierarchy.DisplayName(dup.Member, dup.Instances[0].Alias),
			Parent:   hierarchy.NoName,
			Cause:    fmt.Sprintf("%d children (fuzzy)", dup.Children),
			Rows:     instanceRows(dup.Instances),
		})
	}

	for _, dup := range result.DuplicateWarnings {
		if dup.Member == "" || len(dup.Instances) < 2 {
			logger.Warn().Str("member", dup.Member).Msg("skipping malformed duplicate warning")
			continue
		}
		findings = append(findings, hierarchy.Finding{
			Severity: hierarchy.Warning,
			Category: hierarchy.CategoryDuplicateLeaf,
			Member:   hierarchy.DisplayName(dup.Member, dup.Instances[0].Alias),
			Parent:   hierarchy.NoName,
			Cause:    "All leaves (acceptable)",
			Rows:     instanceRows(dup.Instances),
		})
	}

	for _, orphan := range result.OrphanWarnings {
		if orphan.Parent == "" || len(orphan.Rows) == 0 {
			logger.Warn().Str("parent", orphan.Parent).Msg("skipping malformed orphan warning")
			continue
		}
		findings = append(findings, hierarchy.Finding{
			Severity: hierarchy.Warning,
			Category: hierarchy.CategoryExternalParent,
			Member:   hierarchy.NoName,
			Parent:   orphan.Parent,
			Cause:    "Parent not in file (may exist in Vena)",
			Rows:     orphan.Rows,
		})
	}

	findings = append(findings, collectWhitespace(result.Whitespace, logger)...)

	for _, violation := range result.Lengths {
		if violation.Name == "" {
			logger.Warn().Int("row", violation.Row).Msg("skipping malformed length violation")
			continue
		}
		member, parent := hierarchy.NoName, hierarchy.NoName
		if violation.Column == validate.ColumnMember {
			member = violation.Name
		} else {
			parent = violation.Name
		}
		findings = append(findings, hierarchy.Finding{
			Severity: hierarchy.Error,
			Category: hierarchy.CategoryRestriction,
			Member:   member,
			Parent:   parent,
			Cause:    violation.Cause(),
			Rows:     []int{violation.Row},
		})
	}

	return findings
}

// collectWhitespace merges the per-column whitespace issues of one text into a
// single finding. A text malformed in both columns is a primary finding with
// both names set; a single-column text is a secondary warning with the other
// side left as the sentinel.
func collectWhitespace(issues []validate.WhitespaceIssue, logger zerolog.Logger) []hierarchy.Finding {
	type merged struct {
		memberRows []int
		parentRows []int
		alias      string
		defects    []string
	}
	var order []string
	byText := make(map[string]*merged)

	for _, issue := range issues {
		if issue.Text == "" || len(issue.Rows) == 0 {
			logger.Warn().Str("text", issue.Text).Msg("skipping malformed whitespace issue")
			continue
		}
		m, ok := byText[issue.Text]
		if !ok {
			m = &merged{alias: issue.AliasExample, defects: issue.Defects}
			byText[issue.Text] = m
			order = append(order, issue.Text)
		}
		if issue.Column == validate.ColumnMember {
			m.memberRows = append(m.memberRows, issue.Rows...)
		} else {
			m.parentRows = append(m.parentRows, issue.Rows...)
		}
	}

	var findings []hierarchy.Finding
	for _, text := range order {
		m := byText[text]
		name := hierarchy.DisplayName(text, m.alias)
		defects := strings.Join(m.defects, ", ")

		switch {
		case len(m.memberRows) > 0 && len(m.parentRows) > 0:
			findings = append(findings, hierarchy.Finding{
				Severity: hierarchy.Warning,
				Category: hierarchy.CategoryWhitespace,
				Member:   name,
				Parent:   name,
				Cause:    "Both member and parent: " + defects,
				Rows:     unionRows(m.memberRows, m.parentRows),
			})
		case len(m.memberRows) > 0:
			findings = append(findings, hierarchy.Finding{
				Severity: hierarchy.Warning,
				Category: hierarchy.CategoryWhitespace,
				Member:   name,
				Parent:   hierarchy.NoName,
				Cause:    "Member name: " + defects,
				Rows:     m.memberRows,
			})
		default:
			findings = append(findings, hierarchy.Finding{
				Severity: hierarchy.Warning,
				Category: hierarchy.CategoryWhitespace,
				Member:   hierarchy.NoName,
				Parent:   name,
				Cause:    "Parent name: " + defects,
				Rows:     m.parentRows,
			})
		}
	}
	return findings
}

func instanceRows(instances []validate.Instance) []int {
	rows := make([]int, len(instances))
	for i, inst := range instances {
		rows[i] = inst.Row
	}
	return rows
}

// unionRows merges two row lists, dropping duplicates, preserving no
// particular order; display formatting sorts.
func unionRows(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	var union []int
	for _, r := range append(append([]int{}, a...), b...) {
		if !seen[r] {
			seen[r] = true
			union = append(union, r)
		}
	}
	return union
}
