// Package tagtree groups slash-delimited post tags into a navigation tree.
package tagtree

import (
	"sort"
	"strings"

	"github.com/starford/garden/internal/models"
)

// Node is one segment of a tag path. Count is the number of posts tagged
// with exactly FullPath; nodes that only exist as ancestors have Count 0.
type Node struct {
	Name     string           `json:"name"`
	FullPath string           `json:"full_path"`
	Count    int              `json:"count"`
	Children map[string]*Node `json:"-"`
}

func newNode(name, fullPath string) *Node {
	return &Node{Name: name, FullPath: fullPath, Children: make(map[string]*Node)}
}

// SortedChildren returns the children ordered by name.
func (n *Node) SortedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find returns the node at fullPath, or nil.
func (n *Node) Find(fullPath string) *Node {
	cur := n
	for _, seg := range segments(fullPath) {
		next, ok := cur.Children[seg]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Walk visits every node below n depth-first, children in name order.
// Depth starts at 0 for n's direct children.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		for _, c := range node.SortedChildren() {
			fn(c, depth)
			walk(c, depth+1)
		}
	}
	walk(n, 0)
}

// Counts returns the number of posts carrying each full tag, skipping hidden
// root tags and everything below them.
func Counts(posts []models.Post, hidden []string) map[string]int {
	hide := hiddenSet(hidden)
	counts := make(map[string]int)
	for _, p := range posts {
		seen := make(map[string]struct{}, len(p.Tags))
		for _, raw := range p.Tags {
			tag := normalize(raw)
			if tag == "" || isHidden(tag, hide) {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}
	return counts
}

// Build aggregates the tags of posts into a tree rooted at an unnamed node.
// Only the node matching a complete tag receives its count.
func Build(posts []models.Post, hidden []string) *Node {
	root := newNode("", "")
	for tag, count := range Counts(posts, hidden) {
		cur := root
		parts := segments(tag)
		for i, seg := range parts {
			next, ok := cur.Children[seg]
			if !ok {
				next = newNode(seg, strings.Join(parts[:i+1], "/"))
				cur.Children[seg] = next
			}
			cur = next
		}
		cur.Count = count
	}
	return root
}

// FilterPosts returns the posts tagged with tag or any tag nested below it.
func FilterPosts(posts []models.Post, tag string) []models.Post {
	tag = normalize(tag)
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		for _, t := range p.Tags {
			t = normalize(t)
			if t == tag || strings.HasPrefix(t, tag+"/") {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func segments(tag string) []string {
	parts := strings.Split(tag, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalize drops empty path segments so "a//b/" and "a/b" are one tag.
func normalize(tag string) string {
	return strings.Join(segments(strings.TrimSpace(tag)), "/")
}

func hiddenSet(hidden []string) map[string]struct{} {
	set := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		set[strings.ToLower(normalize(h))] = struct{}{}
	}
	return set
}

func isHidden(tag string, hide map[string]struct{}) bool {
	root, _, _ := strings.Cut(tag, "/")
	_, ok := hide[strings.ToLower(root)]
	return ok
}
