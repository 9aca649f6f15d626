package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholders look like NUL <kind> <index> SOH. Neither control character
// survives input normalisation, so tokens cannot be forged by note text and
// pass through HTML escaping untouched.
const (
	markOpen  = "\x00"
	markClose = "\x01"

	kindIframe byte = 'F'
	kindCode   byte = 'C'
)

var (
	iframeRe      = regexp.MustCompile(`(?is)<iframe.*?</iframe>`)
	placeholderRe = regexp.MustCompile(`\x00([A-Z])(\d+)\x01`)
	controlMarks  = strings.NewReplacer("\r\n", "\n", markOpen, "", markClose, "")
	htmlEscaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	htmlUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">")
)

type protector struct {
	frags map[byte][]string
}

func newProtector() *protector {
	return &protector{frags: make(map[byte][]string)}
}

// save stores frag and returns the token that stands in for it.
func (pr *protector) save(kind byte, frag string) string {
	idx := len(pr.frags[kind])
	pr.frags[kind] = append(pr.frags[kind], frag)
	return markOpen + string(kind) + strconv.Itoa(idx) + markClose
}

// restore substitutes every token of the given kind with its fragment.
func (pr *protector) restore(kind byte, s string) string {
	frags := pr.frags[kind]
	if len(frags) == 0 {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(tok string) string {
		m := placeholderRe.FindStringSubmatch(tok)
		if m[1][0] != kind {
			return tok
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil || idx >= len(frags) {
			return tok
		}
		return frags[idx]
	})
}

func isIframeToken(s string) bool {
	return strings.HasPrefix(s, markOpen+string(kindIframe))
}

// protectIframes normalises line endings, drops stray control marks and
// swaps each <iframe>...</iframe> for a placeholder.
func (p *pass) protectIframes(s string) string {
	s = controlMarks.Replace(s)
	return iframeRe.ReplaceAllStringFunc(s, func(frag string) string {
		return p.saved.save(kindIframe, frag)
	})
}

func (p *pass) escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// restore puts code back first, since a code fragment may itself carry an
// iframe token, then iframes.
func (p *pass) restore(s string) string {
	s = p.saved.restore(kindCode, s)
	return p.saved.restore(kindIframe, s)
}
