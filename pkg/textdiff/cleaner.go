// Package textdiff explains, character by character, how a problem string
// differs from the string it was meant to be. It is layered: a cleaner that
// isolates whitespace defects, a classifier that turns raw edit operations
// into semantic edits (typo, transposition, deletion, insertion), an annotator
// that decides which edits deserve inline text, and a renderer that marks the
// defects up for display.
package textdiff

import (
	"strconv"
	"strings"
)

// WhitespaceMap records where a string's whitespace defects sit, in original
// string coordinates (rune indexes).
type WhitespaceMap struct {
	Leading  []int    // positions of leading spaces
	Trailing []int    // positions of trailing spaces
	Runs     [][2]int // [start, end) ranges of multi-space runs
	Tabs     []int    // tab positions
}

// HasDefects reports whether the map carries any whitespace problem.
func (m WhitespaceMap) HasDefects() bool {
	return len(m.Leading) > 0 || len(m.Trailing) > 0 || len(m.Runs) > 0 || len(m.Tabs) > 0
}

// problemAt reports whether the given position should be rendered as a
// whitespace defect. The first space of a multi-space run is not a defect:
// the first keystroke was the intended separator, the rest are accidental.
func (m WhitespaceMap) problemAt(pos int) bool {
	for _, p := range m.Leading {
		if p == pos {
			return true
		}
	}
	for _, p := range m.Trailing {
		if p == pos {
			return true
		}
	}
	for _, p := range m.Tabs {
		if p == pos {
			return true
		}
	}
	for _, run := range m.Runs {
		if run[0] < pos && pos < run[1] {
			return true
		}
	}
	return false
}

// CleanString is a whitespace-normalized string together with the map needed
// to project positions in the clean text back onto the original.
type CleanString struct {
	Clean    string
	Original string
	// PositionMap[i] is the original rune index of the i-th non-whitespace
	// rune of the clean text.
	PositionMap []int
	Whitespace  WhitespaceMap
}

// OriginalPos projects a rune position in the clean text back to a rune
// position in the original text. Positions at or past the end of the clean
// text project to the end of the original.
func (c CleanString) OriginalPos(cleanPos int) int {
	clean := []rune(c.Clean)
	nonWS := 0
	for i := 0; i < cleanPos && i < len(clean); i++ {
		if clean[i] != ' ' {
			nonWS++
		}
	}
	if nonWS < len(c.PositionMap) {
		return c.PositionMap[nonWS]
	}
	return len([]rune(c.Original))
}

// Analyze normalizes a string and records every whitespace defect: leading
// and trailing spaces, internal multi-space runs, and tabs. The clean text is
// all whitespace runs collapsed to a single space with the ends stripped.
// Empty input yields empty outputs.
func Analyze(text string) CleanString {
	runes := []rune(text)
	var m WhitespaceMap

	for i := 0; i < len(runes) && runes[i] == ' '; i++ {
		m.Leading = append(m.Leading, i)
	}
	for i := len(runes) - 1; i >= 0 && runes[i] == ' '; i-- {
		m.Trailing = append(m.Trailing, i)
	}
	for i := 0; i < len(runes); {
		switch {
		case runes[i] == '\t':
			m.Tabs = append(m.Tabs, i)
			i++
		case runes[i] == ' ' && i+1 < len(runes) && runes[i+1] == ' ':
			start := i
			for i < len(runes) && runes[i] == ' ' {
				i++
			}
			m.Runs = append(m.Runs, [2]int{start, i})
		default:
			i++
		}
	}

	positionMap := make([]int, 0, len(runes))
	for i, r := range runes {
		if r != ' ' && r != '\t' && r != '\n' {
			positionMap = append(positionMap, i)
		}
	}

	return CleanString{
		Clean:       strings.Join(strings.Fields(text), " "),
		Original:    text,
		PositionMap: positionMap,
		Whitespace:  m,
	}
}

// DescribeDefects names the whitespace defects of a string in the order
// downstream reports list them: double spaces, leading, trailing, tabs.
// Returns nil for a clean string.
func DescribeDefects(text string) []string {
	var defects []string
	if n := strings.Count(text, "  "); n > 0 {
		defects = append(defects, strconv.Itoa(n)+" double space")
	}
	if strings.HasPrefix(text, " ") {
		defects = append(defects, "leading space")
	}
	if strings.HasSuffix(text, " ") {
		defects = append(defects, "trailing space")
	}
	if strings.Contains(text, "\t") {
		defects = append(defects, "tab character")
	}
	return defects
}

// HasWhitespaceDefect reports whether the text has any whitespace problem.
func HasWhitespaceDefect(text string) bool {
	if text == "" {
		return false
	}
	return strings.HasPrefix(text, " ") || strings.HasSuffix(text, " ") ||
		strings.Contains(text, "\t") || strings.Contains(text, "  ")
}

// VenaInvalidWhitespace reports whether the text carries whitespace the target
// platform rejects outright: leading or trailing spaces, or tabs. Internal
// double spaces are cosmetic only and do not count.
func VenaInvalidWhitespace(text string) bool {
	if text == "" {
		return false
	}
	return strings.HasPrefix(text, " ") || strings.HasSuffix(text, " ") ||
		strings.Contains(text, "\t")
}
