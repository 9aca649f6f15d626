// Package markdown renders garden note bodies to HTML.
//
// Rendering is a fixed, ordered list of text stages. Each stage runs over the
// output of the previous one; order matters, since later stages must not
// re-process HTML produced earlier. Raw iframes and code contents are swapped
// for placeholders before any transform and restored verbatim at the end.
// Rendering never fails: unmatched syntax passes through as text.
package markdown

import "strings"

// DefaultAssetRoot prefixes relative image paths.
const DefaultAssetRoot = "/posts/"

// Option configures a Renderer.
type Option func(*Renderer)

// WithAssetRoot sets the prefix for relative image paths. A trailing slash is
// added when missing.
func WithAssetRoot(root string) Option {
	return func(r *Renderer) {
		if root == "" {
			return
		}
		if !strings.HasSuffix(root, "/") {
			root += "/"
		}
		r.assetRoot = root
	}
}

// Renderer converts markdown to HTML. It holds no per-call state and is safe
// for concurrent use.
type Renderer struct {
	assetRoot string
}

// New returns a Renderer with the given options applied.
func New(opts ...Option) *Renderer {
	r := &Renderer{assetRoot: DefaultAssetRoot}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = New()

// Render converts md to HTML using the default asset root.
func Render(md string) string {
	return defaultRenderer.Render(md)
}

// Render converts md to HTML.
func (r *Renderer) Render(md string) string {
	p := &pass{r: r, saved: newProtector()}
	return strings.TrimSpace(p.run(pipeline, md))
}

// AssetRoot returns the prefix applied to relative image paths.
func (r *Renderer) AssetRoot() string {
	return r.assetRoot
}

type stage struct {
	name  string
	apply func(p *pass, s string) string
}

// pipeline is the full stage order.
var pipeline = []stage{
	{"protect-iframes", (*pass).protectIframes},
	{"escape-html", (*pass).escapeHTML},
	{"fenced-code", (*pass).fencedCode},
	{"inline-code", (*pass).inlineCode},
	{"blockquotes", (*pass).blockquotes},
	{"headers", (*pass).headers},
	{"images", (*pass).images},
	{"links", (*pass).links},
	{"emphasis", (*pass).emphasis},
	{"strikethrough", (*pass).strikethrough},
	{"horizontal-rules", (*pass).horizontalRules},
	{"lists", (*pass).lists},
	{"paragraphs", (*pass).paragraphs},
	{"restore", (*pass).restore},
}

// quotePipeline renders the content of a blockquote group.
var quotePipeline = []stage{
	{"headers", (*pass).headers},
	{"images", (*pass).images},
	{"links", (*pass).links},
	{"emphasis", (*pass).emphasis},
	{"strikethrough", (*pass).strikethrough},
	{"lists", (*pass).lists},
	{"paragraphs", (*pass).paragraphs},
}

// StageNames lists the stages of the full pipeline in execution order.
func StageNames() []string {
	names := make([]string, len(pipeline))
	for i, st := range pipeline {
		names[i] = st.name
	}
	return names
}

// pass carries the placeholder table of a single Render call.
type pass struct {
	r     *Renderer
	saved *protector
}

func (p *pass) run(stages []stage, s string) string {
	for _, st := range stages {
		s = st.apply(p, s)
	}
	return s
}
