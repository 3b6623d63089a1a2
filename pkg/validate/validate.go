// Package validate implements the hierarchy validation engine: four
// independent checks over a parent-child table (orphans, parent mismatches,
// duplicate members, whitespace defects) plus the platform length
// restriction. Each check is a pure function of the table; one validation run
// is one computation with no shared state between runs.
package validate

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/venalab/hiervet/pkg/hierarchy"
	"github.com/venalab/hiervet/pkg/textdiff"
)

// Column identifies which column of the table a finding refers to.
type Column string

const (
	// ColumnMember is the member-name column.
	ColumnMember Column = "Member"
	// ColumnParent is the parent-name column.
	ColumnParent Column = "Parent"
)

// Orphan is a parent reference with no corresponding member, exact or fuzzy.
type Orphan struct {
	Parent        string
	Rows          []int
	HasWhitespace bool // the orphan string itself has a whitespace defect
	VenaInvalid   bool // leading/trailing/tab specifically
}

// ChildRef is one row referencing a mismatched parent string.
type ChildRef struct {
	Row      int
	Member   string
	Alias    string
	Parent   string
	Distance int
}

// Mismatch is a parent reference that fuzzily matches an existing member:
// almost certainly the same logical entity, written with noise.
type Mismatch struct {
	CorrectMember string
	CorrectAlias  string
	CorrectRow    int
	ParentRef     string
	Difference    Difference
	Children      []ChildRef
}

// Instance is one occurrence of a duplicated member name.
type Instance struct {
	Row   int
	Alias string
}

// Duplicate is a member name occurring on two or more rows. When other rows
// reference it as a parent it is ambiguous which instance they roll up to.
type Duplicate struct {
	Member    string
	Instances []Instance
	Children  int // rows referencing this name as parent, fuzzily counted
}

// WhitespaceIssue is a member or parent string with whitespace defects,
// reported once per distinct text with the affected rows aggregated.
type WhitespaceIssue struct {
	Column       Column
	Text         string
	Rows         []int
	AliasExample string
	Defects      []string
}

// LengthViolation is a member or parent name exceeding the platform's name
// length limit. Unconditional error, independent of any other defect.
type LengthViolation struct {
	Row    int
	Column Column
	Name   string
	Length int
	Limit  int
}

// Cause formats the user-facing explanation of the violation.
func (v LengthViolation) Cause() string {
	return fmt.Sprintf("%s exceeds %d chars (%d chars)", v.Column, v.Limit, v.Length)
}

// Result aggregates the outcome of one validation run.
type Result struct {
	OrphanErrors      []Orphan // orphans whose string has whitespace defects
	OrphanWarnings    []Orphan // clean orphans; may legitimately exist downstream
	Mismatches        []Mismatch
	DuplicateErrors   []Duplicate
	DuplicateWarnings []Duplicate
	Whitespace        []WhitespaceIssue
	Lengths           []LengthViolation
}

// Engine runs validation checks with a fixed configuration.
type Engine struct {
	maxDistance   int
	maxNameLength int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDistance sets the inclusive edit-distance bound for fuzzy matching.
func WithMaxDistance(d int) Option {
	return func(e *Engine) { e.maxDistance = d }
}

// WithMaxNameLength sets the platform name length limit.
func WithMaxNameLength(n int) Option {
	return func(e *Engine) { e.maxNameLength = n }
}

// New creates an Engine with default settings: fuzzy bound 2, name limit 80.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxDistance:   2,
		maxNameLength: 80,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs every check against the table and returns the aggregated
// result. Rows already flagged by the orphan, mismatch or duplicate checks
// are excluded from redundant whitespace reporting on the same column and
// text, so one underlying defect does not surface as three findings.
func (e *Engine) Validate(table hierarchy.Table) Result {
	var result Result

	for _, orphan := range e.FindOrphans(table) {
		if orphan.HasWhitespace {
			result.OrphanErrors = append(result.OrphanErrors, orphan)
		} else {
			result.OrphanWarnings = append(result.OrphanWarnings, orphan)
		}
	}
	result.Mismatches = e.FindMismatches(table)
	result.DuplicateErrors, result.DuplicateWarnings = e.FindDuplicates(table)
	result.Lengths = e.FindLengthViolations(table)

	flaggedParent := make(map[string]bool)
	for _, orphan := range result.OrphanErrors {
		flaggedParent[orphan.Parent] = true
	}
	for _, orphan := range result.OrphanWarnings {
		flaggedParent[orphan.Parent] = true
	}
	for _, m := range result.Mismatches {
		flaggedParent[m.ParentRef] = true
	}
	flaggedMember := make(map[string]bool)
	for _, d := range result.DuplicateErrors {
		flaggedMember[d.Member] = true
	}
	for _, d := range result.DuplicateWarnings {
		flaggedMember[d.Member] = true
	}
	result.Whitespace = e.FindWhitespaceIssues(table, flaggedMember, flaggedParent)

	return result
}

// FindOrphans returns parent references with no exact or fuzzy member match,
// grouped by parent string in first-appearance order. References with a
// fuzzy match are left for mismatch handling.
func (e *Engine) FindOrphans(table hierarchy.Table) []Orphan {
	members := memberSet(table)
	names := table.MemberNames()

	index := make(map[string]int)
	var orphans []Orphan
	for _, row := range table.Rows {
		if !row.HasParent() {
			continue
		}
		if members[row.Parent] {
			continue
		}
		if i, seen := index[row.Parent]; seen {
			orphans[i].Rows = append(orphans[i].Rows, row.Source)
			continue
		}
		if e.hasFuzzyMatch(row.Parent, names) {
			continue
		}
		index[row.Parent] = len(orphans)
		orphans = append(orphans, Orphan{
			Parent:        row.Parent,
			Rows:          []int{row.Source},
			HasWhitespace: textdiff.HasWhitespaceDefect(row.Parent),
			VenaInvalid:   textdiff.VenaInvalidWhitespace(row.Parent),
		})
	}
	return orphans
}

// FindMismatches returns parent references that fuzzily match an existing
// member, with the difference classified. Affected children are the rows
// whose parent reference exactly equals the mismatched string; a broader
// fuzzy net would conflate distinct near-matches of the same member.
func (e *Engine) FindMismatches(table hierarchy.Table) []Mismatch {
	members := memberSet(table)
	names := table.MemberNames()
	firstRow := make(map[string]int, len(names))
	alias := make(map[string]string, len(names))
	for _, row := range table.Rows {
		if _, ok := firstRow[row.Member]; !ok {
			firstRow[row.Member] = row.Source
			alias[row.Member] = row.Alias
		}
	}

	processed := make(map[string]bool)
	var mismatches []Mismatch
	for _, row := range table.Rows {
		if !row.HasParent() || members[row.Parent] || processed[row.Parent] {
			continue
		}

		best, bestDist := e.bestFuzzyMatch(row.Parent, names)
		if best == "" {
			continue
		}

		var children []ChildRef
		for _, child := range table.Rows {
			if child.Parent == row.Parent {
				children = append(children, ChildRef{
					Row:      child.Source,
					Member:   child.Member,
					Alias:    child.Alias,
					Parent:   child.Parent,
					Distance: bestDist,
				})
			}
		}

		mismatches = append(mismatches, Mismatch{
			CorrectMember: best,
			CorrectAlias:  alias[best],
			CorrectRow:    firstRow[best],
			ParentRef:     row.Parent,
			Difference:    ClassifyDifference(best, row.Parent),
			Children:      children,
		})
		processed[row.Parent] = true
	}
	return mismatches
}

// FindDuplicates groups rows by exact member name and flags names occurring
// twice or more. A duplicate referenced as a parent by other rows (counted
// fuzzily, to catch slightly malformed child references) is an error: it is
// ambiguous which instance the children roll up to. A duplicated pure leaf
// is only a warning.
func (e *Engine) FindDuplicates(table hierarchy.Table) (errors, warnings []Duplicate) {
	instances := make(map[string][]Instance)
	var order []string
	for _, row := range table.Rows {
		if len(instances[row.Member]) == 0 {
			order = append(order, row.Member)
		}
		instances[row.Member] = append(instances[row.Member], Instance{Row: row.Source, Alias: row.Alias})
	}

	for _, name := range order {
		if len(instances[name]) < 2 {
			continue
		}
		children := e.countChildrenFuzzy(table, name)
		dup := Duplicate{Member: name, Instances: instances[name], Children: children}
		if children > 0 {
			errors = append(errors, dup)
		} else {
			warnings = append(warnings, dup)
		}
	}
	return errors, warnings
}

// FindWhitespaceIssues scans every member and parent string for leading and
// trailing spaces, internal multi-space runs, and tabs. Issues are grouped by
// exact text so the same malformed string on many rows reports once. Texts
// already flagged on the same column by another check are skipped.
func (e *Engine) FindWhitespaceIssues(table hierarchy.Table, flaggedMember, flaggedParent map[string]bool) []WhitespaceIssue {
	type key struct {
		column Column
		text   string
	}
	index := make(map[key]int)
	var issues []WhitespaceIssue

	record := func(column Column, text, alias string, source int, flagged map[string]bool) {
		if !textdiff.HasWhitespaceDefect(text) || flagged[text] {
			return
		}
		k := key{column, text}
		if i, ok := index[k]; ok {
			issues[i].Rows = append(issues[i].Rows, source)
			return
		}
		index[k] = len(issues)
		issues = append(issues, WhitespaceIssue{
			Column:       column,
			Text:         text,
			Rows:         []int{source},
			AliasExample: alias,
			Defects:      textdiff.DescribeDefects(text),
		})
	}

	for _, row := range table.Rows {
		record(ColumnMember, row.Member, row.Alias, row.Source, flaggedMember)
		if row.HasParent() {
			record(ColumnParent, row.Parent, row.Alias, row.Source, flaggedParent)
		}
	}
	return issues
}

// FindLengthViolations flags member and parent names exceeding the platform
// length limit.
func (e *Engine) FindLengthViolations(table hierarchy.Table) []LengthViolation {
	var violations []LengthViolation
	check := func(column Column, name string, source int) {
		if n := len([]rune(name)); n > e.maxNameLength {
			violations = append(violations, LengthViolation{
				Row:    source,
				Column: column,
				Name:   name,
				Length: n,
				Limit:  e.maxNameLength,
			})
		}
	}
	for _, row := range table.Rows {
		check(ColumnMember, row.Member, row.Source)
		if row.HasParent() {
			check(ColumnParent, row.Parent, row.Source)
		}
	}
	return violations
}

// hasFuzzyMatch reports whether any member name is within the fuzzy bound.
func (e *Engine) hasFuzzyMatch(parent string, names []string) bool {
	for _, name := range names {
		d := levenshtein.ComputeDistance(parent, name)
		if d >= 1 && d <= e.maxDistance {
			return true
		}
	}
	return false
}

// bestFuzzyMatch returns the member name with the smallest edit distance
// within [1, max], preferring earlier members on ties.
func (e *Engine) bestFuzzyMatch(parent string, names []string) (string, int) {
	best := ""
	bestDist := e.maxDistance + 1
	for _, name := range names {
		d := levenshtein.ComputeDistance(parent, name)
		if d >= 1 && d < bestDist {
			best = name
			bestDist = d
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestDist
}

// countChildrenFuzzy counts rows whose parent reference is within the fuzzy
// bound of the member name, exact matches included.
func (e *Engine) countChildrenFuzzy(table hierarchy.Table, member string) int {
	count := 0
	for _, row := range table.Rows {
		if !row.HasParent() {
			continue
		}
		if levenshtein.ComputeDistance(member, row.Parent) <= e.maxDistance {
			count++
		}
	}
	return count
}

func memberSet(table hierarchy.Table) map[string]bool {
	set := make(map[string]bool, len(table.Rows))
	for _, row := range table.Rows {
		set[row.Member] = true
	}
	return set
}
