package tagtree

import (
	"reflect"
	"testing"

	"github.com/starford/garden/internal/models"
)

func posts(tagSets ...[]string) []models.Post {
	out := make([]models.Post, len(tagSets))
	for i, tags := range tagSets {
		out[i] = models.Post{Title: "p", Tags: tags}
	}
	return out
}

func mustFind(t *testing.T, root *Node, path string) *Node {
	t.Helper()
	n := root.Find(path)
	if n == nil {
		t.Fatalf("node %q not found", path)
	}
	return n
}

func TestBuild_CountsOnlyCompleteTags(t *testing.T) {
	root := Build(posts(
		[]string{"area/sub", "journal"},
		[]string{"area/sub"},
		[]string{"area/other/deep"},
		[]string{"journal"},
	), nil)

	area := mustFind(t, root, "area")
	if area.Count != 0 {
		t.Errorf("ancestor-only node count = %d, want 0", area.Count)
	}
	if area.FullPath != "area" {
		t.Errorf("full path = %q", area.FullPath)
	}

	sub := mustFind(t, root, "area/sub")
	if sub.Count != 2 || sub.FullPath != "area/sub" {
		t.Errorf("area/sub = %+v", sub)
	}

	for path, want := range map[string]int{"area/other": 0, "area/other/deep": 1, "journal": 2} {
		if got := mustFind(t, root, path).Count; got != want {
			t.Errorf("%s count = %d, want %d", path, got, want)
		}
	}
	if root.Find("missing") != nil {
		t.Error("missing tag should not be found")
	}
}

func TestBuild_AncestorAlsoTagged(t *testing.T) {
	root := Build(posts([]string{"a"}, []string{"a/b"}), nil)
	if mustFind(t, root, "a").Count != 1 || mustFind(t, root, "a/b").Count != 1 {
		t.Errorf("counts = a:%d a/b:%d", root.Find("a").Count, root.Find("a/b").Count)
	}
}

func TestBuild_LeafCountEqualsExactMatches(t *testing.T) {
	ps := posts(
		[]string{"x/y"},
		[]string{"x/y", "x"},
		[]string{"x/y/z"},
		[]string{"x/yy"},
	)
	root := Build(ps, nil)
	for _, tag := range []string{"x/y", "x/yy", "x/y/z"} {
		want := 0
		for _, p := range ps {
			if p.HasTag(tag) {
				want++
			}
		}
		if got := mustFind(t, root, tag).Count; got != want {
			t.Errorf("%s count = %d, want %d", tag, got, want)
		}
	}
}

func TestBuild_HiddenRootTagsExcluded(t *testing.T) {
	root := Build(posts(
		[]string{"private", "private/diary", "public"},
		[]string{"Private/other"},
	), []string{"private"})

	if root.Find("private") != nil || root.Find("Private") != nil {
		t.Error("hidden tag present in tree")
	}
	if root.Find("public") == nil {
		t.Error("public tag missing")
	}
	if len(root.Children) != 1 {
		t.Errorf("root children = %d, want 1", len(root.Children))
	}

	counts := Counts(posts([]string{"private/x", "notes"}), []string{"private"})
	if !reflect.DeepEqual(counts, map[string]int{"notes": 1}) {
		t.Errorf("counts = %v", counts)
	}
}

func TestBuild_HiddenOnlyMatchesRoot(t *testing.T) {
	root := Build(posts([]string{"area/private"}), []string{"private"})
	if root.Find("area/private") == nil {
		t.Error("nested tag named like a hidden root should stay visible")
	}
}

func TestBuild_SortedChildren(t *testing.T) {
	root := Build(posts([]string{"zeta", "alpha/b", "alpha/a", "mid"}), nil)

	var names []string
	for _, c := range root.SortedChildren() {
		names = append(names, c.Name)
	}
	if want := []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("children = %v, want %v", names, want)
	}

	var walked []string
	root.Walk(func(n *Node, depth int) {
		walked = append(walked, n.FullPath)
	})
	if want := []string{"alpha", "alpha/a", "alpha/b", "mid", "zeta"}; !reflect.DeepEqual(walked, want) {
		t.Errorf("walk = %v, want %v", walked, want)
	}
}

func TestBuild_NormalizesEmptySegments(t *testing.T) {
	root := Build(posts([]string{"a//b/"}, []string{"a/b"}), nil)
	if got := mustFind(t, root, "a/b").Count; got != 2 {
		t.Errorf("a/b count = %d, want 2", got)
	}
}

func TestBuild_DuplicateTagOnPostCountsOnce(t *testing.T) {
	root := Build(posts([]string{"a", "a"}), nil)
	if got := mustFind(t, root, "a").Count; got != 1 {
		t.Errorf("a count = %d, want 1", got)
	}
}

func TestFilterPosts(t *testing.T) {
	ps := []models.Post{
		{Title: "1", Tags: []string{"area/sub"}},
		{Title: "2", Tags: []string{"area"}},
		{Title: "3", Tags: []string{"areas"}},
		{Title: "4", Tags: []string{"other"}},
	}
	var titles []string
	for _, p := range FilterPosts(ps, "area") {
		titles = append(titles, p.Title)
	}
	if want := []string{"1", "2"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("filtered = %v, want %v", titles, want)
	}
}

func TestExpandState_DefaultExpandedAndSurvivesRebuild(t *testing.T) {
	state := NewExpandState()
	if !state.IsExpanded("anything") {
		t.Error("nodes should default to expanded")
	}
	if state.Toggle("area") || state.IsExpanded("area") {
		t.Fatal("toggle should collapse area")
	}

	ps := posts([]string{"area/sub"}, []string{"journal/daily"})
	rows := Flatten(Build(ps, nil), state)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Node.FullPath != "area" || rows[0].Expanded || !rows[0].HasChildren {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Node.FullPath != "journal" {
		t.Errorf("row 1 = %q", rows[1].Node.FullPath)
	}
	if rows[2].Node.FullPath != "journal/daily" || rows[2].Depth != 1 {
		t.Errorf("row 2 = %+v", rows[2])
	}

	// A rebuilt tree reads the same state by path.
	ps = append(ps, models.Post{Tags: []string{"area/new"}})
	rows = Flatten(Build(ps, nil), state)
	if len(rows) != 3 {
		t.Fatalf("rebuilt rows = %d, want 3", len(rows))
	}
	if rows[0].Expanded {
		t.Error("area should stay collapsed after rebuild")
	}

	if !state.Toggle("area") {
		t.Error("second toggle should expand area")
	}
	if n := len(Flatten(Build(ps, nil), state)); n != 5 {
		t.Errorf("expanded rows = %d, want 5", n)
	}
}

func TestCollapsedState(t *testing.T) {
	state := CollapsedState("b", "", "a/")
	if got := state.Collapsed(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("collapsed = %v", got)
	}
	if state.IsExpanded("a") {
		t.Error("a should be collapsed")
	}

	var nilState *ExpandState
	if !nilState.IsExpanded("x") {
		t.Error("nil state should expand everything")
	}
	if len(nilState.Collapsed()) != 0 {
		t.Error("nil state has no collapsed paths")
	}
}

func TestOutline(t *testing.T) {
	root := Build(posts([]string{"area/sub"}, []string{"area/sub"}, []string{"solo"}), nil)
	if got, want := Outline(root, nil), "v area\n  - sub (2)\n- solo (1)\n"; got != want {
		t.Errorf("outline = %q, want %q", got, want)
	}
	if got, want := Outline(root, CollapsedState("area")), "> area\n- solo (1)\n"; got != want {
		t.Errorf("collapsed outline = %q, want %q", got, want)
	}
}
