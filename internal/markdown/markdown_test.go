package markdown

import (
	"strings"
	"testing"
)

func TestRender_Golden(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "heading and paragraph",
			in:   "# Title\n\nSome *text* here.",
			want: "<h1>Title</h1>\n\n<p>Some <em>text</em> here.</p>",
		},
		{
			name: "headers h3 before h1",
			in:   "### three\n## two\n# one",
			want: "<h3>three</h3>\n<h2>two</h2>\n<h1>one</h1>",
		},
		{
			name: "line breaks inside paragraph",
			in:   "line one\nline two",
			want: "<p>line one<br>line two</p>",
		},
		{
			name: "html escaped",
			in:   "a < b && c > d",
			want: "<p>a &lt; b &amp;&amp; c &gt; d</p>",
		},
		{
			name: "horizontal rule",
			in:   "a\n\n---\n\nb",
			want: "<p>a</p>\n\n<hr>\n\n<p>b</p>",
		},
		{
			name: "emphasis precedence",
			in:   "***bi*** **b** *i* ___u___ __ub__ _ui_ ~~s~~",
			want: "<p><strong><em>bi</em></strong> <strong>b</strong> <em>i</em> <strong><em>u</em></strong> <strong>ub</strong> <em>ui</em> <del>s</del></p>",
		},
		{
			name: "task list",
			in:   "- [x] done\n- [ ] todo",
			want: `<ul><li class="task-item completed"><input type="checkbox" disabled checked> done</li><li class="task-item"><input type="checkbox" disabled> todo</li></ul>`,
		},
		{
			name: "list kind change splits lists",
			in:   "1. one\n2. two\n- a\n* b",
			want: "<ol><li>one</li><li>two</li></ol>\n\n<ul><li>a</li><li>b</li></ul>",
		},
		{
			name: "blockquote",
			in:   "> **Quote** line\n> second\n\nafter",
			want: "<blockquote><p><strong>Quote</strong> line<br>second</p></blockquote>\n\n<p>after</p>",
		},
		{
			name: "link opens new tab",
			in:   "[site](https://e.com/a_b_c) and _it_",
			want: `<p><a href="https://e.com/a_b_c" target="_blank" rel="noopener noreferrer">site</a> and <em>it</em></p>`,
		},
		{
			name: "fenced code untouched",
			in:   "```go\nfunc a() { return *p * 2 }\n_x_ <b>\n```",
			want: "<pre><code class=\"language-go\">func a() { return *p * 2 }\n_x_ &lt;b&gt;</code></pre>",
		},
		{
			name: "fenced code without language",
			in:   "```\n# not a header\n```",
			want: "<pre><code># not a header</code></pre>",
		},
		{
			name: "inline code untouched",
			in:   "Use `a*b*c` now",
			want: "<p>Use <code>a*b*c</code> now</p>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.in); got != tc.want {
				t.Errorf("Render(%q)\n got: %q\nwant: %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRender_TaskListStructure(t *testing.T) {
	out := Render("- [x] done\n- [ ] todo")
	if n := strings.Count(out, "<ul>"); n != 1 {
		t.Errorf("<ul> count = %d, want 1", n)
	}
	if n := strings.Count(out, `<li class="task-item`); n != 2 {
		t.Errorf("task items = %d, want 2", n)
	}

	items := strings.Split(out, "</li>")
	if len(items) < 2 {
		t.Fatalf("items = %q", items)
	}
	if !strings.Contains(items[0], "completed") || !strings.Contains(items[0], "checked") {
		t.Errorf("first item not completed: %q", items[0])
	}
	if strings.Contains(items[1], "completed") || strings.Contains(items[1], "checked") {
		t.Errorf("second item should be open: %q", items[1])
	}
}

func TestRender_IframeRoundTrip(t *testing.T) {
	iframe := `<iframe src="https://x/y"></iframe>`
	out := Render("<script>x</script>\n\n" + iframe)
	if !strings.Contains(out, iframe) {
		t.Errorf("iframe not preserved: %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") || strings.Contains(out, "<script>") {
		t.Errorf("script not escaped: %q", out)
	}
}

func TestRender_IframeAttributesNotMangled(t *testing.T) {
	iframe := "<iframe\n  src=\"https://www.youtube.com/embed/a_b_c?x=1&y=2\"\n  allowfullscreen></iframe>"
	out := Render("Watch *this*:\n\n" + iframe + "\n\nand __that__")
	for _, want := range []string{iframe, "<em>this</em>", "<strong>that</strong>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// A block holding only the iframe is not wrapped in a paragraph.
	if strings.Contains(out, "<p><iframe") {
		t.Errorf("iframe wrapped in paragraph: %q", out)
	}
}

func TestRender_ControlCharactersCannotForgePlaceholders(t *testing.T) {
	out := Render("\x00F0\x01 text <iframe src=\"a\"></iframe>")
	if strings.ContainsAny(out, "\x00\x01") {
		t.Errorf("control characters leaked: %q", out)
	}
	if !strings.Contains(out, `<iframe src="a"></iframe>`) {
		t.Errorf("iframe lost: %q", out)
	}
}

func TestRender_Images(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"My Photo.png", "/posts/My%20Photo.png"},
		{"folder/My%20Photo%281%29.png", "/posts/folder/My%20Photo%281%29.png"},
		{"100%.png", "/posts/100%25.png"},
		{"/img/a.png", "/img/a.png"},
		{"https://e.com/a.png", "https://e.com/a.png"},
		{"http://e.com/a.png", "http://e.com/a.png"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
	}
	for _, tc := range cases {
		want := `<p><img src="` + tc.want + `" alt="a" loading="lazy"></p>`
		if out := Render("![a](" + tc.src + ")"); out != want {
			t.Errorf("src %q\n got: %s\nwant: %s", tc.src, out, want)
		}
	}
}

func TestRender_UnderscoreInsideAttributeNotItalic(t *testing.T) {
	out := Render("![x](my_photo_1.png) and _real_")
	if !strings.Contains(out, `src="/posts/my_photo_1.png"`) || strings.Contains(out, "my<em>") {
		t.Errorf("attribute mangled: %q", out)
	}
	if !strings.Contains(out, "<em>real</em>") {
		t.Errorf("plain italics lost: %q", out)
	}
}

func TestRender_CustomAssetRoot(t *testing.T) {
	r := New(WithAssetRoot("/assets"))
	if r.AssetRoot() != "/assets/" {
		t.Errorf("asset root = %q", r.AssetRoot())
	}
	want := `<p><img src="/assets/a%20b.png" alt="" loading="lazy"></p>`
	if got := r.Render("![](a b.png)"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_ListAfterParagraphLine(t *testing.T) {
	want := "<p>intro</p>\n\n<ul><li>a</li><li>b</li></ul>"
	if out := Render("intro\n- a\n- b"); out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRender_BulletWithEmphasis(t *testing.T) {
	want := "<ul><li>item with <em>em</em></li><li>plain</li></ul>"
	if out := Render("* item with *em*\n* plain"); out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRender_UnmatchedSyntaxPassesThrough(t *testing.T) {
	want := "<p>**unclosed and [broken](link and ~~half</p>"
	if out := Render("**unclosed and [broken](link and ~~half"); out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	in := "# A\n\n> quote _x_\n\n- [ ] t\n\n<iframe src=\"y\"></iframe>\n\n```\ncode\n```"
	first := Render(in)
	for i := 0; i < 5; i++ {
		if got := Render(in); got != first {
			t.Fatalf("run %d differs:\n%q\n%q", i, got, first)
		}
	}
}

func TestStageNames(t *testing.T) {
	names := StageNames()
	if len(names) != 14 {
		t.Fatalf("stages = %v", names)
	}
	for i, want := range map[int]string{0: "protect-iframes", 1: "escape-html", 12: "paragraphs", 13: "restore"} {
		if names[i] != want {
			t.Errorf("stage %d = %q, want %q", i, names[i], want)
		}
	}
}

func TestRender_ImageSrcWithEscapedCharacters(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"a&b.png", "/posts/a&amp;b.png"},
		{"x<y>.png", "/posts/x%3Cy%3E.png"},
		{"https://e.com/a.png?x=1&y=2", "https://e.com/a.png?x=1&amp;y=2"},
	}
	for _, tc := range cases {
		want := `<p><img src="` + tc.want + `" alt="a" loading="lazy"></p>`
		if out := Render("![a](" + tc.src + ")"); out != want {
			t.Errorf("src %q\n got: %s\nwant: %s", tc.src, out, want)
		}
	}
}
