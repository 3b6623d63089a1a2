// Package hierarchy defines the data model shared by the hiervet engine:
// the parent-child table that validation operates on, and the findings that
// validation produces.
package hierarchy

import (
	"sort"
	"strconv"
	"strings"
)

// NoName is the sentinel shown when a finding has no member or parent name.
const NoName = "—"

// RowOffset converts an internal 0-based row index into the row number a user
// sees in a spreadsheet: +1 for 1-based numbering, +1 for the header row.
const RowOffset = 2

// Severity classifies how serious a finding is.
type Severity string

const (
	// Error findings must be fixed before the data can be imported.
	Error Severity = "Error"
	// Warning findings are advisory; import will still succeed.
	Warning Severity = "Warning"
)

// Category identifies the kind of defect a finding reports.
type Category string

const (
	CategoryOrphan         Category = "Orphan"
	CategoryExternalParent Category = "External Parent"
	CategoryMismatch       Category = "Parent Mismatch"
	CategoryDuplicate      Category = "Duplicate"
	CategoryDuplicateLeaf  Category = "Duplicate Leaf"
	CategoryWhitespace     Category = "Whitespace"
	CategoryRestriction    Category = "Vena Restriction"
)

// Row is one record of a parent-child hierarchy table.
type Row struct {
	Dim      string // dimension name, passthrough
	Member   string // member name, never empty after parsing
	Alias    string // optional member alias
	Parent   string // parent reference, empty for roots
	Operator string // rollup operator: +, - or ~
	Cmd      string // command code, passthrough
	Source   int    // 0-based index of the row in the source data
}

// HasParent reports whether the row carries a parent reference.
func (r Row) HasParent() bool { return r.Parent != "" }

// Table is an ordered sequence of rows. Member names are not required to be
// unique; duplicates are a detectable condition, not a model violation.
type Table struct {
	Rows []Row
}

// MemberNames returns the distinct member names in first-appearance order.
func (t Table) MemberNames() []string {
	seen := make(map[string]bool, len(t.Rows))
	names := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if !seen[row.Member] {
			seen[row.Member] = true
			names = append(names, row.Member)
		}
	}
	return names
}

// AliasOf returns the alias of the first row carrying the given member name.
func (t Table) AliasOf(member string) string {
	for _, row := range t.Rows {
		if row.Member == member {
			return row.Alias
		}
	}
	return ""
}

// Finding is the common projection of every validation issue: a uniform record
// the grouper, renderer and report writer can all handle without knowing which
// check produced it. Findings are immutable once produced; grouping assigns
// the display ID but never changes identity.
type Finding struct {
	ID       string   // family display number, e.g. "#3" or "#3.1"; set by the grouper
	Severity Severity //
	Category Category //
	Member   string   // member name involved, or NoName
	Parent   string   // parent name involved, or NoName
	Cause    string   // human explanation of the defect
	Rows     []int    // 0-based source rows affected
}

// DisplayRows formats the finding's rows as the user-facing spreadsheet row
// list, e.g. "3, 7, 12".
func (f Finding) DisplayRows() string {
	return FormatRows(f.Rows)
}

// DisplayRow converts a 0-based source index into the spreadsheet row number.
func DisplayRow(source int) int { return source + RowOffset }

// FormatRows renders 0-based source indexes as a sorted, comma-separated list
// of spreadsheet row numbers.
func FormatRows(rows []int) string {
	display := make([]int, len(rows))
	for i, r := range rows {
		display[i] = DisplayRow(r)
	}
	sort.Ints(display)
	parts := make([]string, len(display))
	for i, r := range display {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}

// NormalizeName is the canonical whitespace normalization used for grouping
// and fix deduplication: strip, tabs to spaces, internal runs collapsed.
// Returns "" for empty input or the NoName sentinel.
func NormalizeName(name string) string {
	if name == "" || name == NoName {
		return ""
	}
	return strings.Join(strings.Fields(name), " ")
}

// DisplayName decorates a member name with its alias when the name contains
// digits, matching how downstream screens label numeric account codes.
func DisplayName(name, alias string) string {
	if alias == "" {
		return name
	}
	if strings.ContainsAny(name, "0123456789") {
		return name + " (" + alias + ")"
	}
	return name
}
