package markdown

import (
	"regexp"
	"strings"
)

const quoteMarker = "&gt; "

var (
	fenceRe      = regexp.MustCompile("(?s)```([\\w+-]*)[ \\t]*\\n(.*?)```")
	h3Re         = regexp.MustCompile(`(?m)^###[ \t]+(.+)$`)
	h2Re         = regexp.MustCompile(`(?m)^##[ \t]+(.+)$`)
	h1Re         = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	hrRe         = regexp.MustCompile(`(?m)^(?:---|\*\*\*)$`)
	blankLinesRe = regexp.MustCompile(`\n[ \t]*\n`)
)

// blockPrefixes mark paragraph blocks that are already HTML.
var blockPrefixes = []string{"<h", "<ul", "<ol", "<blockquote", "<pre", "<hr", "<p>"}

// fencedCode turns ``` regions into <pre><code>. The content is stored as a
// placeholder so no later stage touches it.
func (p *pass) fencedCode(s string) string {
	return fenceRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := fenceRe.FindStringSubmatch(m)
		lang, code := sub[1], strings.TrimRight(sub[2], "\n")
		open := "<pre><code>"
		if lang != "" {
			open = `<pre><code class="language-` + lang + `">`
		}
		return "\n\n" + open + p.saved.save(kindCode, code) + "</code></pre>\n\n"
	})
}

// blockquotes groups consecutive quoted lines and renders each group through
// quotePipeline. A blank line ends the group.
func (p *pass) blockquotes(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	var quoted []string

	flush := func() {
		if len(quoted) == 0 {
			return
		}
		inner := p.run(quotePipeline, strings.Join(quoted, "\n"))
		inner = strings.ReplaceAll(inner, "\n\n", "\n")
		out = append(out, "", "<blockquote>"+inner+"</blockquote>", "")
		quoted = nil
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, quoteMarker):
			quoted = append(quoted, strings.TrimPrefix(line, quoteMarker))
		case line == strings.TrimSpace(quoteMarker):
			quoted = append(quoted, "")
		default:
			flush()
			out = append(out, line)
		}
	}
	flush()
	return strings.Join(out, "\n")
}

// headers runs h3 before h2 before h1 so "###" is never read as "#".
func (p *pass) headers(s string) string {
	s = h3Re.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Re.ReplaceAllString(s, "<h2>$1</h2>")
	return h1Re.ReplaceAllString(s, "<h1>$1</h1>")
}

func (p *pass) horizontalRules(s string) string {
	return hrRe.ReplaceAllString(s, "\n<hr>\n")
}

// paragraphs wraps every blank-line separated block that is not already
// block-level HTML in <p>, turning inner newlines into <br>.
func (p *pass) paragraphs(s string) string {
	blocks := blankLinesRe.Split(s, -1)
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if isBlockHTML(b) {
			out = append(out, b)
			continue
		}
		out = append(out, "<p>"+strings.ReplaceAll(b, "\n", "<br>")+"</p>")
	}
	return strings.Join(out, "\n\n")
}

func isBlockHTML(b string) bool {
	if isIframeToken(b) {
		return true
	}
	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(b, prefix) {
			return true
		}
	}
	return false
}
