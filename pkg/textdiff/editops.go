package textdiff

// OpKind is a primitive Levenshtein edit operation.
type OpKind int

const (
	// OpDelete removes the source rune at SrcPos.
	OpDelete OpKind = iota
	// OpInsert inserts the destination rune at DestPos before SrcPos.
	OpInsert
	// OpReplace substitutes the source rune at SrcPos with the destination
	// rune at DestPos.
	OpReplace
)

// String returns the operation name.
func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Op is a primitive edit operation transforming the source string into the
// destination string. Positions are rune indexes.
type Op struct {
	Kind    OpKind
	SrcPos  int
	DestPos int
}

// EditOps computes the minimal sequence of primitive edit operations that
// transforms src into dst, ordered by position. Matching runes produce no
// operation. When several minimal sequences exist, the backtrace prefers
// delete, then insert, then the zero-cost diagonal: an insert or delete
// inside a run of identical runes resolves to the run's trailing position
// ("Revenue" -> "Revenuee" is an insert at 7, not 6), and an adjacent swap
// surfaces as an insert+delete pair rather than two replacements; the
// classifier relies on that shape to recognize transpositions.
func EditOps(src, dst string) []Op {
	s := []rune(src)
	d := []rune(dst)
	m, n := len(s), len(d)

	// Full DP matrix; inputs here are member names, not documents.
	dist := make([][]int, m+1)
	for i := range dist {
		dist[i] = make([]int, n+1)
		dist[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dist[0][j] = j
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if s[i-1] == d[j-1] {
				cost = 0
			}
			dist[i][j] = min3(dist[i-1][j]+1, dist[i][j-1]+1, dist[i-1][j-1]+cost)
		}
	}

	// Backtrace from the corner, collecting operations in reverse.
	var reversed []Op
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && dist[i][j] == dist[i-1][j]+1:
			reversed = append(reversed, Op{Kind: OpDelete, SrcPos: i - 1, DestPos: j})
			i--
		case j > 0 && dist[i][j] == dist[i][j-1]+1:
			reversed = append(reversed, Op{Kind: OpInsert, SrcPos: i, DestPos: j - 1})
			j--
		case i > 0 && j > 0 && s[i-1] == d[j-1] && dist[i][j] == dist[i-1][j-1]:
			i--
			j--
		default:
			reversed = append(reversed, Op{Kind: OpReplace, SrcPos: i - 1, DestPos: j - 1})
			i--
			j--
		}
	}

	ops := make([]Op, 0, len(reversed))
	for k := len(reversed) - 1; k >= 0; k-- {
		ops = append(ops, reversed[k])
	}
	return ops
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
