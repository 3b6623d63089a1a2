// Package treeparse converts a visual tree layout, where hierarchy depth is
// encoded by which column holds a row's first non-blank value, into the flat
// parent-child table the validation engine consumes. Parsing is a single
// top-to-bottom scan maintaining a stack of the current parent at each depth.
package treeparse

import (
	"fmt"
	"strings"

	"github.com/venalab/hiervet/pkg/hierarchy"
)

// ErrorKind identifies a structural defect that prevents a row, or the rest
// of the file, from being parsed.
type ErrorKind string

const (
	ErrMissingParent ErrorKind = "Missing Parent"
	ErrSkippedLevel  ErrorKind = "Skipped Level"
	ErrMultipleRoots ErrorKind = "Multiple Root Nodes"
)

// WarningKind identifies a recoverable oddity noted during parsing.
type WarningKind string

const (
	WarnWhitespaceTrimmed WarningKind = "Whitespace Trimmed"
	WarnInvalidOperator   WarningKind = "Invalid Operator"
	WarnRepeatedMember    WarningKind = "Repeated Member"
	WarnEmptyRows         WarningKind = "Empty Rows Skipped"
)

// StructuralError is a tree defect tied to one source row.
type StructuralError struct {
	Kind    ErrorKind
	Row     int // 1-based source row
	Member  string
	Message string
}

// Warning is a recoverable parse note, possibly spanning several rows.
type Warning struct {
	Kind    WarningKind
	Member  string
	Rows    []int // 1-based source rows
	Message string
}

// Row is one member emitted by the parser, repeated navigation references
// included.
type Row struct {
	Member   string
	Alias    string
	Parent   string
	Operator string
	Depth    int
	Source   int // 1-based source row
}

// Stats summarizes a parse.
type Stats struct {
	Members  int // distinct members turned into nodes
	MaxDepth int
	Leaves   int
	Errors   int
	Warnings int
}

// Result is the full outcome of parsing one grid.
type Result struct {
	Rows     []Row
	Errors   []StructuralError
	Warnings []Warning
	Stats    Stats
}

// Halted reports whether parsing stopped early on a multiple-root error.
func (r Result) Halted() bool {
	for _, e := range r.Errors {
		if e.Kind == ErrMultipleRoots {
			return true
		}
	}
	return false
}

// Parser parses cell grids with a fixed column layout.
type Parser struct {
	levels         int
	aliasColumn    int
	operatorColumn int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLevels sets how many leading columns encode hierarchy depth.
func WithLevels(n int) Option {
	return func(p *Parser) { p.levels = n }
}

// WithAliasColumn sets the 0-based column holding member aliases.
func WithAliasColumn(col int) Option {
	return func(p *Parser) { p.aliasColumn = col }
}

// WithOperatorColumn sets the 0-based column holding rollup operators.
func WithOperatorColumn(col int) Option {
	return func(p *Parser) { p.operatorColumn = col }
}

// New creates a Parser with the conventional layout: columns 0..9 are
// hierarchy levels, column 10 the alias, column 11 the operator.
func New(opts ...Option) *Parser {
	p := &Parser{
		levels:         10,
		aliasColumn:    10,
		operatorColumn: 11,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse scans the grid top to bottom. Depth is the index of a row's first
// non-blank level column. A repeated member name navigates to the existing
// node instead of creating a new one, so shared subtrees can be referenced
// from several places; the repeated row is still emitted. A second root halts
// processing, because every subsequent row would cascade into missing-parent
// noise. An optional header row ("level..." in the first cell) is skipped.
func (p *Parser) Parse(grid [][]string) Result {
	var result Result

	start := 0
	if len(grid) > 0 && len(grid[0]) > 0 &&
		strings.HasPrefix(strings.ToLower(grid[0][0]), "level") {
		start = 1
	}

	parentStack := make(map[int]string) // depth -> member name of current parent
	created := make(map[string]bool)    // first occurrence only
	childOf := make(map[string]bool)    // members referenced as a parent
	occurrences := make(map[string][]int)
	var occurrenceOrder []string
	rootName := ""
	emptyRows := 0
	maxDepth := 0

scan:
	for idx := start; idx < len(grid); idx++ {
		cells := grid[idx]
		sourceRow := idx + 1

		depth := -1
		member := ""
		for col := 0; col < p.levels && col < len(cells); col++ {
			raw := cells[col]
			trimmed := strings.TrimSpace(raw)
			if trimmed == "" {
				continue
			}
			depth = col
			member = trimmed
			if raw != trimmed {
				result.Warnings = append(result.Warnings, Warning{
					Kind:    WarnWhitespaceTrimmed,
					Member:  member,
					Rows:    []int{sourceRow},
					Message: "Auto-trimmed leading/trailing whitespace",
				})
			}
			break
		}
		if depth == -1 {
			emptyRows++
			continue
		}

		alias := cellAt(cells, p.aliasColumn)
		operator := "+"
		if op := cellAt(cells, p.operatorColumn); op != "" {
			if op == "+" || op == "-" || op == "~" {
				operator = op
			} else {
				result.Warnings = append(result.Warnings, Warning{
					Kind:    WarnInvalidOperator,
					Member:  member,
					Rows:    []int{sourceRow},
					Message: fmt.Sprintf("Invalid operator %q (must be +, -, or ~). Defaulting to '+'", op),
				})
			}
		}

		if len(occurrences[member]) == 0 {
			occurrenceOrder = append(occurrenceOrder, member)
		}
		occurrences[member] = append(occurrences[member], sourceRow)

		parentName := ""
		if depth > 0 {
			parentName = parentStack[depth-1]
		}

		// A known name is a navigation reference: it becomes the current
		// node at this depth without creating anything new.
		if created[member] {
			result.Rows = append(result.Rows, Row{
				Member:   member,
				Alias:    alias,
				Parent:   parentName,
				Operator: operator,
				Depth:    depth,
				Source:   sourceRow,
			})
			parentStack[depth] = member
			pruneDeeper(parentStack, depth)
			continue
		}

		if max, ok := deepest(parentStack); ok && depth > max+1 {
			result.Errors = append(result.Errors, StructuralError{
				Kind:   ErrSkippedLevel,
				Row:    sourceRow,
				Member: member,
				Message: fmt.Sprintf(
					"Cannot skip hierarchy levels. %q is at level %d, but there's no parent at level %d. Add a level %d parent, then resubmit.",
					member, depth, max+1, max+1),
			})
			continue
		}

		if depth > 0 {
			if parentName == "" {
				result.Errors = append(result.Errors, StructuralError{
					Kind:   ErrMissingParent,
					Row:    sourceRow,
					Member: member,
					Message: fmt.Sprintf(
						"%q at level %d has no parent at level %d. Add a parent member at level %d, then resubmit.",
						member, depth, depth-1, depth-1),
				})
				continue
			}
		} else {
			if rootName != "" {
				result.Errors = append(result.Errors, StructuralError{
					Kind:   ErrMultipleRoots,
					Row:    sourceRow,
					Member: member,
					Message: fmt.Sprintf(
						"File contains multiple root nodes (%q and %q). Please split into separate files - one for each root - and submit individually.",
						rootName, member),
				})
				break scan
			}
			rootName = member
			parentStack = make(map[int]string)
		}

		created[member] = true
		if parentName != "" {
			childOf[parentName] = true
		}
		result.Rows = append(result.Rows, Row{
			Member:   member,
			Alias:    alias,
			Parent:   parentName,
			Operator: operator,
			Depth:    depth,
			Source:   sourceRow,
		})
		parentStack[depth] = member
		pruneDeeper(parentStack, depth)

		result.Stats.Members++
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	for _, member := range occurrenceOrder {
		rows := occurrences[member]
		if len(rows) > 1 {
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarnRepeatedMember,
				Member:  member,
				Rows:    rows,
				Message: fmt.Sprintf("Member %q appears %d times (used for navigation)", member, len(rows)),
			})
		}
	}
	if emptyRows > 0 {
		plural := ""
		if emptyRows > 1 {
			plural = "s"
		}
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarnEmptyRows,
			Message: fmt.Sprintf("Skipped %d empty row%s", emptyRows, plural),
		})
	}

	if result.Stats.Members > 0 {
		result.Stats.MaxDepth = maxDepth
		for member := range created {
			if !childOf[member] {
				result.Stats.Leaves++
			}
		}
	}
	result.Stats.Errors = len(result.Errors)
	result.Stats.Warnings = len(result.Warnings)

	return result
}

// Table converts the parsed rows into the flat table format, every row
// carrying the given dimension and command code. Row sources are re-indexed
// to positions in the generated table, since that is the file the caller will
// see findings against.
func (r Result) Table(dimension, cmd string) hierarchy.Table {
	table := hierarchy.Table{Rows: make([]hierarchy.Row, 0, len(r.Rows))}
	for i, row := range r.Rows {
		table.Rows = append(table.Rows, hierarchy.Row{
			Dim:      dimension,
			Member:   row.Member,
			Alias:    row.Alias,
			Parent:   row.Parent,
			Operator: row.Operator,
			Cmd:      cmd,
			Source:   i,
		})
	}
	return table
}

func cellAt(cells []string, col int) string {
	if col < len(cells) {
		return strings.TrimSpace(cells[col])
	}
	return ""
}

func deepest(stack map[int]string) (int, bool) {
	max, found := 0, false
	for depth := range stack {
		if !found || depth > max {
			max, found = depth, true
		}
	}
	return max, found
}

func pruneDeeper(stack map[int]string, depth int) {
	for d := range stack {
		if d > depth {
			delete(stack, d)
		}
	}
}
