package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/starford/garden/internal/models"
)

const (
	excerptLen    = 120
	excerptSuffix = "..."
	defaultTag    = "notes"
)

// Post front matter is matched line by line against the raw block and only
// knows title, date and a bracketed tags list. It is intentionally separate
// from ExtractFrontMatter.
var (
	postFrontRe  = regexp.MustCompile(`^---\r?\n([\s\S]*?)\r?\n---(?:\r?\n|$)`)
	postTitleRe  = regexp.MustCompile(`(?m)^title:[ \t]*(.+?)[ \t\r]*$`)
	postDateRe   = regexp.MustCompile(`(?m)^date:[ \t]*(.+?)[ \t\r]*$`)
	postTagsRe   = regexp.MustCompile(`(?m)^tags:[ \t]*\[(.*)\]`)
	leadingH1Re  = regexp.MustCompile(`^#[ \t]+(.+?)[ \t\r]*(?:\n|$)`)
	excerptStrip = strings.NewReplacer("#", "", "*", "", "_", "", "`", "", "[", "", "]", "")
	newlinesRe   = regexp.MustCompile(`\r?\n+`)
)

// PostOption configures ParsePost.
type PostOption func(*postOptions)

type postOptions struct {
	now Clock
}

// WithClock sets the clock used to resolve "today".
func WithClock(now Clock) PostOption {
	return func(o *postOptions) {
		o.now = now
	}
}

// ParsePost builds a Post from a raw document.
//
// Title falls back to the filename without .md, then front matter, then a
// leading H1 (which is removed from the body). Body hashtags are lowercased,
// appended to the tags without duplicates and stripped from the body. A post
// without tags is tagged "notes".
func ParsePost(doc models.Document, opts ...PostOption) models.Post {
	o := postOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	post := models.Post{
		Title:    titleFromFilename(doc.Filename),
		Date:     doc.Created,
		Tags:     []string{},
		Filename: doc.Filename,
	}
	if post.Date == "" {
		post.Date = today(o.now)
	}

	body := doc.Content
	titleFromFront := false
	if m := postFrontRe.FindStringSubmatchIndex(body); m != nil {
		block := body[m[2]:m[3]]
		if t := frontValue(postTitleRe, block); t != "" {
			post.Title = t
			titleFromFront = true
		}
		if d := frontValue(postDateRe, block); d != "" {
			post.Date = d
		}
		if tags := postTagsRe.FindStringSubmatch(block); tags != nil {
			for _, t := range strings.Split(tags[1], ",") {
				if t = unquote(strings.TrimSpace(t)); t != "" {
					post.Tags = appendUnique(post.Tags, t)
				}
			}
		}
		body = strings.TrimSpace(body[m[1]:])
	}

	post.Tags = appendUnique(post.Tags, extractHashtags(body)...)

	if !titleFromFront {
		if h := leadingH1Re.FindStringSubmatchIndex(body); h != nil {
			post.Title = body[h[2]:h[3]]
			body = body[h[1]:]
		}
	}

	post.Body = stripHashtags(body)
	post.Excerpt = Excerpt(post.Body)

	if len(post.Tags) == 0 {
		post.Tags = []string{defaultTag}
	}
	return post
}

// frontValue returns the trimmed, unquoted value re captures in block. A
// blank value counts as absent.
func frontValue(re *regexp.Regexp, block string) string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(unquote(strings.TrimSpace(m[1])))
}

// Excerpt strips markdown markers, folds newlines into spaces and keeps the
// first 120 characters. The "..." suffix is always appended, even when the
// text was not truncated.
func Excerpt(body string) string {
	text := excerptStrip.Replace(body)
	text = strings.TrimSpace(newlinesRe.ReplaceAllString(text, " "))
	if utf8.RuneCountInString(text) > excerptLen {
		text = string([]rune(text)[:excerptLen])
	}
	return text + excerptSuffix
}
