package tagtree

import (
	"sort"
	"strconv"
	"strings"
)

// ExpandState records which tree nodes are expanded, keyed by full path.
// Paths without an entry are expanded. The state is owned by the caller and
// survives tree rebuilds. It is not safe for concurrent use.
type ExpandState struct {
	expanded map[string]bool
}

// NewExpandState returns a state in which every node is expanded.
func NewExpandState() *ExpandState {
	return &ExpandState{expanded: make(map[string]bool)}
}

// CollapsedState returns a state with the given paths collapsed.
func CollapsedState(paths ...string) *ExpandState {
	s := NewExpandState()
	for _, p := range paths {
		if p = normalize(p); p != "" {
			s.Set(p, false)
		}
	}
	return s
}

// IsExpanded reports whether the node at path is expanded.
func (s *ExpandState) IsExpanded(path string) bool {
	if s == nil {
		return true
	}
	v, ok := s.expanded[path]
	return !ok || v
}

// Set records the expanded flag for path.
func (s *ExpandState) Set(path string, expanded bool) {
	s.expanded[path] = expanded
}

// Toggle flips the node at path and returns its new state.
func (s *ExpandState) Toggle(path string) bool {
	next := !s.IsExpanded(path)
	s.expanded[path] = next
	return next
}

// Collapsed lists the collapsed paths in sorted order.
func (s *ExpandState) Collapsed() []string {
	var out []string
	if s == nil {
		return out
	}
	for p, v := range s.expanded {
		if !v {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Row is one visible line of the rendered sidebar.
type Row struct {
	Node        *Node
	Depth       int
	Expanded    bool
	HasChildren bool
}

// Flatten lists the visible rows of the tree in sidebar order. Children of
// collapsed nodes are omitted.
func Flatten(root *Node, state *ExpandState) []Row {
	var rows []Row
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.SortedChildren() {
			expanded := state.IsExpanded(c.FullPath)
			rows = append(rows, Row{
				Node:        c,
				Depth:       depth,
				Expanded:    expanded,
				HasChildren: len(c.Children) > 0,
			})
			if expanded {
				walk(c, depth+1)
			}
		}
	}
	walk(root, 0)
	return rows
}

// Outline renders the visible rows as indented text, one tag per line.
func Outline(root *Node, state *ExpandState) string {
	var b strings.Builder
	for _, r := range Flatten(root, state) {
		b.WriteString(strings.Repeat("  ", r.Depth))
		switch {
		case !r.HasChildren:
			b.WriteString("- ")
		case r.Expanded:
			b.WriteString("v ")
		default:
			b.WriteString("> ")
		}
		b.WriteString(r.Node.Name)
		if r.Node.Count > 0 {
			b.WriteString(" (")
			b.WriteString(strconv.Itoa(r.Node.Count))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
