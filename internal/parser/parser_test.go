package parser

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/starford/garden/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
}

func TestExtractFrontMatter_NoBlock(t *testing.T) {
	inputs := []string{
		"",
		"just text",
		"# Heading\n---\nnot a header\n---",
		"---\nunterminated: yes\nbody",
		" ---\nkey: v\n---\n",
	}
	for _, in := range inputs {
		fm, body := ExtractFrontMatter(in)
		if len(fm) != 0 {
			t.Errorf("%q: expected empty front matter, got %v", in, fm)
		}
		if body != in {
			t.Errorf("%q: body = %q, want content unchanged", in, body)
		}
	}
}

func TestExtractFrontMatter_ValuesAndArrays(t *testing.T) {
	in := "---\ntitle: \"Quoted Title\"\nroute: [one, 'two', \"three\", , ]\nempty:\n: novalue\nnocolon\nurl: https://example.com/a\nCase: Upper\n---\n\nBody here.\n\n"
	fm, body := ExtractFrontMatter(in)

	if got := fm.String("title"); got != "Quoted Title" {
		t.Errorf("title = %q", got)
	}
	if got := fm.List("route"); !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("route = %v", got)
	}
	if _, ok := fm["empty"]; ok {
		t.Error("key with empty value should be skipped")
	}
	if got := fm.String("url"); got != "https://example.com/a" {
		t.Errorf("url = %q, value after the first colon should be kept whole", got)
	}
	if got := fm.String("case"); got != "" {
		t.Errorf("keys are case-sensitive, got %q for lowercase lookup", got)
	}
	if got := fm.String("Case"); got != "Upper" {
		t.Errorf("Case = %q", got)
	}
	if body != "Body here." {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFrontMatter_EmptyBlock(t *testing.T) {
	fm, body := ExtractFrontMatter("---\n---\ncontent")
	if len(fm) != 0 {
		t.Errorf("expected empty map, got %v", fm)
	}
	if body != "content" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFrontMatter_BodyExcludesBlock(t *testing.T) {
	in := "---\na: 1\n---\n  text with --- inside\n---\n"
	_, body := ExtractFrontMatter(in)
	if strings.Contains(body, "a: 1") {
		t.Errorf("header leaked into body: %q", body)
	}
	if body != strings.TrimSpace(body) {
		t.Errorf("body not trimmed: %q", body)
	}
	if body != "text with --- inside\n---" {
		t.Errorf("body = %q", body)
	}
}

func TestFrontMatterList_StringPromotion(t *testing.T) {
	fm := FrontMatter{"tags": {Str: "solo"}}
	if got := fm.List("tags"); !reflect.DeepEqual(got, []string{"solo"}) {
		t.Errorf("List = %v", got)
	}
	if got := fm.List("missing"); got == nil || len(got) != 0 {
		t.Errorf("missing list = %#v, want empty non-nil", got)
	}
}

func TestParsePost_TitleFromH1AndHashtag(t *testing.T) {
	p := ParsePost(models.Document{Content: "# Title\nHello #journal/daily world", Filename: "note.md"})
	if p.Title != "Title" {
		t.Errorf("title = %q", p.Title)
	}
	if !reflect.DeepEqual(p.Tags, []string{"journal/daily"}) {
		t.Errorf("tags = %v", p.Tags)
	}
	if p.Body != "Hello  world" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestParsePost_Defaults(t *testing.T) {
	p := ParsePost(models.Document{Content: "plain text", Filename: "Some Note.MD"}, WithClock(fixedClock))
	if p.Title != "Some Note" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Date != "2024-03-09" {
		t.Errorf("date = %q", p.Date)
	}
	if !reflect.DeepEqual(p.Tags, []string{"notes"}) {
		t.Errorf("tags = %v, want [notes]", p.Tags)
	}
	if p.Filename != "Some Note.MD" {
		t.Errorf("filename = %q", p.Filename)
	}
}

func TestParsePost_CreatedDate(t *testing.T) {
	p := ParsePost(models.Document{Content: "x", Filename: "a.md", Created: "2023-01-02"})
	if p.Date != "2023-01-02" {
		t.Errorf("date = %q", p.Date)
	}
}

func TestParsePost_BlankFrontMatterTitle(t *testing.T) {
	in := "---\ntitle: \ndate:  \t\n---\n# H1\nbody"
	p := ParsePost(models.Document{Content: in, Filename: "a.MD", Created: "2020-01-01"})
	if p.Title != "H1" {
		t.Errorf("title = %q, want H1", p.Title)
	}
	if p.Body != "body" {
		t.Errorf("body = %q, want H1 removed", p.Body)
	}
	if p.Date != "2020-01-01" {
		t.Errorf("date = %q, want created date", p.Date)
	}

	p = ParsePost(models.Document{Content: "---\ntitle: \"\"\n---\nbody", Filename: "Named.md"})
	if p.Title != "Named" {
		t.Errorf("title = %q, want filename fallback", p.Title)
	}
}

func TestParsePost_FrontMatterOverrides(t *testing.T) {
	in := "---\ntitle: From Front\ndate: 2020-05-05\ntags: [Area/Sub, misc]\n---\n# Ignored H1 stays\nText #misc #New"
	p := ParsePost(models.Document{Content: in, Filename: "f.md", Created: "2023-01-02"})
	if p.Title != "From Front" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Date != "2020-05-05" {
		t.Errorf("date = %q", p.Date)
	}
	// Front-matter tags keep their case; hashtags are lowercased.
	want := []string{"Area/Sub", "misc", "new"}
	if !reflect.DeepEqual(p.Tags, want) {
		t.Errorf("tags = %v, want %v", p.Tags, want)
	}
	if !strings.HasPrefix(p.Body, "# Ignored H1 stays") {
		t.Errorf("H1 must stay when the title came from front matter: %q", p.Body)
	}
}

func TestParsePost_UnbracketedTagsIgnored(t *testing.T) {
	p := ParsePost(models.Document{Content: "---\ntags: a, b\n---\nbody", Filename: "x.md"})
	if !reflect.DeepEqual(p.Tags, []string{"notes"}) {
		t.Errorf("tags = %v", p.Tags)
	}
}

func TestParsePost_H1OnlyOnFirstLine(t *testing.T) {
	p := ParsePost(models.Document{Content: "intro\n# Not Title\nmore", Filename: "keep.md"})
	if p.Title != "keep" {
		t.Errorf("title = %q", p.Title)
	}
	if !strings.Contains(p.Body, "# Not Title") {
		t.Errorf("body lost heading: %q", p.Body)
	}
}

func TestParsePost_NoDuplicateTags(t *testing.T) {
	p := ParsePost(models.Document{Content: "#go #Go #go/x #go #GO/x", Filename: "d.md"})
	want := []string{"go", "go/x"}
	if !reflect.DeepEqual(p.Tags, want) {
		t.Errorf("tags = %v, want %v", p.Tags, want)
	}
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("abcdefghij", 20)
	got := Excerpt(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("excerpt %q missing suffix", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != 120 {
		t.Errorf("pre-ellipsis length = %d, want 120", n)
	}

	// Short text is not truncated but still gets the suffix.
	if got := Excerpt("short"); got != "short..." {
		t.Errorf("short excerpt = %q", got)
	}

	if got := Excerpt("## Head\n\n**bold** _it_ `code` [link]\nnext"); got != "Head bold it code link next..." {
		t.Errorf("stripped excerpt = %q", got)
	}
}

func TestExcerpt_Multibyte(t *testing.T) {
	got := Excerpt(strings.Repeat("ж", 130))
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != 120 {
		t.Errorf("rune length = %d, want 120", n)
	}
}

func TestParseThoughtTrain(t *testing.T) {
	in := "---\ntitle: Rabbit hole\nstartPoint: Bees\nendPoint: Maths\nroute: [Bees, Hexagons, \"Packing\"]\nwhyCared: curiosity\nnextRabbitHole: tilings\nquote: 'less is more'\ntags: [science]\n---\nWent deep #Science #geometry"
	tr := ParseThoughtTrain(models.Document{Content: in, Filename: "bees.md", Created: "2022-02-02"})
	if tr.Title != "Rabbit hole" || tr.StartPoint != "Bees" || tr.EndPoint != "Maths" {
		t.Errorf("unexpected train: %+v", tr)
	}
	if !reflect.DeepEqual(tr.Route, []string{"Bees", "Hexagons", "Packing"}) {
		t.Errorf("route = %v", tr.Route)
	}
	if tr.Quote != "less is more" {
		t.Errorf("quote = %q", tr.Quote)
	}
	if !reflect.DeepEqual(tr.Tags, []string{"science", "geometry"}) {
		t.Errorf("tags = %v", tr.Tags)
	}
	if tr.Body != "Went deep" {
		t.Errorf("body = %q", tr.Body)
	}
	if tr.Date != "2022-02-02" {
		t.Errorf("date = %q", tr.Date)
	}
	if tr.Takeaways != "" {
		t.Errorf("takeaways = %q, want empty", tr.Takeaways)
	}
}

func TestParseLab_TagsFromFrontMatterOnly(t *testing.T) {
	in := "---\ntags: [a, b, c]\ndescription: A thing\n---\nBody with #hashtag"
	lab := ParseLab(models.Document{Content: in, Filename: "proj.md"}, WithClock(fixedClock))
	if !reflect.DeepEqual(lab.Tags, []string{"a", "b", "c"}) {
		t.Errorf("tags = %v", lab.Tags)
	}
	if lab.Body != "Body with #hashtag" {
		t.Errorf("body = %q", lab.Body)
	}
	if lab.Title != "proj" {
		t.Errorf("title = %q", lab.Title)
	}
	if lab.Date != "2024-03-09" {
		t.Errorf("date = %q", lab.Date)
	}
	if lab.URL != "" || lab.Thumbnail != "" || lab.View != "" {
		t.Errorf("unset fields should be empty: %+v", lab)
	}
}

func TestParseLab_PreservesCase(t *testing.T) {
	lab := ParseLab(models.Document{Content: "---\ntags: [Go, WASM]\n---\n", Filename: "x.md"})
	if !reflect.DeepEqual(lab.Tags, []string{"Go", "WASM"}) {
		t.Errorf("tags = %v", lab.Tags)
	}
}
