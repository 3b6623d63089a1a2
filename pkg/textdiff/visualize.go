package textdiff

import "strings"

// VisualizeWhitespace renders a string with only its problem whitespace
// highlighted: leading and trailing spaces, the first space of a multi-space
// run, and every tab. Remaining spaces show as plain middle dots so the
// reader can still count separators. Used when a finding is about whitespace
// alone and a full character diff would be noise.
func VisualizeWhitespace(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.WriteString(`<span style="font-family: monospace; font-size: 14px;">`)
	for i, r := range runes {
		switch r {
		case ' ':
			// Leading, trailing, and every space that is followed by
			// another space are problems; the last space of a run reads as
			// the intended separator.
			problem := i == 0 || i == len(runes)-1 ||
				(i+1 < len(runes) && runes[i+1] == ' ')
			if problem {
				b.WriteString(`<span style="background-color: #FFE5E5; border: 1px solid #FF9999; padding: 0 2px;">·</span>`)
			} else {
				b.WriteString("·")
			}
		case '\t':
			b.WriteString(`<span style="background-color: #FFE5E5; border: 1px solid #FF9999; padding: 0 2px;">⇥</span>`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(`</span>`)
	return b.String()
}
