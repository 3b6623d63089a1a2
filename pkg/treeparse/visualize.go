package treeparse

import "strings"

// Visualize renders the parsed rows as an ASCII tree, repeated navigation
// references included. A member emitted more than once is marked "(shared)"
// everywhere it appears.
func (r Result) Visualize() string {
	if len(r.Rows) == 0 {
		return "No members to display"
	}

	byDepth := make(map[int][]Row)
	counts := make(map[string]int)
	for _, row := range r.Rows {
		byDepth[row.Depth] = append(byDepth[row.Depth], row)
		counts[row.Member]++
	}

	var lines []string
	var addChildren func(parent string, depth int, prefix string)
	addChildren = func(parent string, depth int, prefix string) {
		var children []Row
		for _, row := range byDepth[depth+1] {
			if row.Parent == parent {
				children = append(children, row)
			}
		}
		for i, child := range children {
			last := i == len(children)-1
			connector := "├── "
			childPrefix := prefix + "│   "
			if last {
				connector = "└── "
				childPrefix = prefix + "    "
			}
			name := child.Member
			if counts[name] > 1 {
				name += " (shared)"
			}
			lines = append(lines, prefix+connector+name)
			addChildren(child.Member, depth+1, childPrefix)
		}
	}

	roots := byDepth[0]
	for _, root := range roots {
		lines = append(lines, root.Member)
		addChildren(root.Member, 0, "")
		if len(roots) > 1 {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}
