package garden

import "github.com/starford/garden/internal/tagtree"

// TagView is one node of the tag tree as sent to clients. Children of a
// collapsed node are omitted.
type TagView struct {
	Name        string    `json:"name"`
	FullPath    string    `json:"full_path"`
	Count       int       `json:"count"`
	Expanded    bool      `json:"expanded"`
	HasChildren bool      `json:"has_children"`
	Children    []TagView `json:"children,omitempty"`
}

// TagTree is the sidebar tree together with the state it was rendered for.
type TagTree struct {
	Tags      []TagView `json:"tags"`
	Collapsed []string  `json:"collapsed"`
	Outline   string    `json:"outline"`
}

func newTagTree(root *tagtree.Node, state *tagtree.ExpandState) *TagTree {
	collapsed := state.Collapsed()
	if collapsed == nil {
		collapsed = []string{}
	}
	return &TagTree{
		Tags:      tagViews(root, state),
		Collapsed: collapsed,
		Outline:   tagtree.Outline(root, state),
	}
}

func tagViews(n *tagtree.Node, state *tagtree.ExpandState) []TagView {
	children := n.SortedChildren()
	out := make([]TagView, 0, len(children))
	for _, c := range children {
		v := TagView{
			Name:        c.Name,
			FullPath:    c.FullPath,
			Count:       c.Count,
			Expanded:    state.IsExpanded(c.FullPath),
			HasChildren: len(c.Children) > 0,
		}
		if v.Expanded && v.HasChildren {
			v.Children = tagViews(c, state)
		}
		out = append(out, v)
	}
	return out
}
