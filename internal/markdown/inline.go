package markdown

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	inlineCodeRe = regexp.MustCompile("`([^`\\n]+)`")
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	strikeRe     = regexp.MustCompile(`~~([^\n]+?)~~`)

	boldItalicStarRe  = regexp.MustCompile(`\*\*\*([^\n]+?)\*\*\*`)
	boldItalicUnderRe = regexp.MustCompile(`___([^\n]+?)___`)
	boldStarRe        = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
	boldUnderRe       = regexp.MustCompile(`__([^\n]+?)__`)
	// An opening marker followed by whitespace is a list bullet, not emphasis.
	italicStarRe  = regexp.MustCompile(`\*([^*\s][^*\n]*?)\*`)
	italicUnderRe = regexp.MustCompile(`_([^_\s][^_\n]*?)_`)
)

func (p *pass) inlineCode(s string) string {
	return inlineCodeRe.ReplaceAllStringFunc(s, func(m string) string {
		code := inlineCodeRe.FindStringSubmatch(m)[1]
		return "<code>" + p.saved.save(kindCode, code) + "</code>"
	})
}

func (p *pass) images(s string) string {
	return imageRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := imageRe.FindStringSubmatch(m)
		alt, src := sub[1], p.r.resolveImageSrc(sub[2])
		return `<img src="` + src + `" alt="` + alt + `" loading="lazy">`
	})
}

// resolveImageSrc maps a relative image path under the asset root. Each
// segment is decoded and then escaped on its own so "/" survives; when the
// path does not decode it is escaped as written. Absolute paths, URLs and
// data URIs are returned unchanged.
func (r *Renderer) resolveImageSrc(src string) string {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "/") ||
		strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "data:") {
		return src
	}

	// The image stage runs after HTML escaping; undo it before touching the
	// URL and escape the result again for the attribute.
	src = htmlUnescaper.Replace(src)
	decoded, err := url.PathUnescape(src)
	if err != nil {
		decoded = src
	}
	segments := strings.Split(decoded, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return htmlEscaper.Replace(r.assetRoot + strings.Join(segments, "/"))
}

func (p *pass) links(s string) string {
	return linkRe.ReplaceAllString(s, `<a href="${2}" target="_blank" rel="noopener noreferrer">${1}</a>`)
}

// emphasis runs bold+italic, then bold, then italic. Underscore forms are
// skipped when the match sits inside a quoted attribute value.
func (p *pass) emphasis(s string) string {
	s = boldItalicStarRe.ReplaceAllString(s, "<strong><em>$1</em></strong>")
	s = replaceOutsideQuotes(boldItalicUnderRe, s, "<strong><em>", "</em></strong>")
	s = boldStarRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = replaceOutsideQuotes(boldUnderRe, s, "<strong>", "</strong>")
	s = italicStarRe.ReplaceAllString(s, "<em>$1</em>")
	return replaceOutsideQuotes(italicUnderRe, s, "<em>", "</em>")
}

func (p *pass) strikethrough(s string) string {
	return strikeRe.ReplaceAllString(s, "<del>$1</del>")
}

// replaceOutsideQuotes wraps the first group of every match of re in
// openTag/closeTag, except where the match starts inside a quoted attribute
// value. A skipped match only consumes its first byte, so a real match
// that overlaps it is still found.
func replaceOutsideQuotes(re *regexp.Regexp, s, openTag, closeTag string) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(s) {
		loc := re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if insideQuotes(s, start) {
			pos = start + 1
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(openTag)
		b.WriteString(s[pos+loc[2] : pos+loc[3]])
		b.WriteString(closeTag)
		last, pos = end, end
	}
	b.WriteString(s[last:])
	return b.String()
}

// insideQuotes reports whether an odd number of double quotes precede i on
// its line, i.e. i is inside an attribute value. Attributes produced by
// earlier stages never span lines.
func insideQuotes(s string, i int) bool {
	lineStart := strings.LastIndexByte(s[:i], '\n') + 1
	return strings.Count(s[lineStart:i], `"`)%2 == 1
}
