// Package parser turns raw garden documents into Post, ThoughtTrain and Lab
// entities. Parsing never fails: malformed input degrades to defaults.
package parser

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// dateLayout is the calendar date format used when no date is supplied.
const dateLayout = "2006-01-02"

var (
	// hashtagRe matches #tag and nested #area/sub tags.
	hashtagRe = regexp.MustCompile(`#[A-Za-z][\w-]*(?:/[\w-]+)*`)
	mdExtRe   = regexp.MustCompile(`(?i)\.md$`)
)

// Clock returns the current time. Tests replace it to pin "today".
type Clock func() time.Time

func today(now Clock) string {
	if now == nil {
		now = time.Now
	}
	return now().Format(dateLayout)
}

// titleFromFilename strips directories and a trailing .md (any case).
func titleFromFilename(filename string) string {
	return mdExtRe.ReplaceAllString(path.Base(filename), "")
}

// extractHashtags returns the lowercased hashtags of body in order of first
// appearance.
func extractHashtags(body string) []string {
	matches := hashtagRe.FindAllString(body, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m[1:]))
	}
	return out
}

// stripHashtags removes every hashtag from body and trims the result.
func stripHashtags(body string) string {
	return strings.TrimSpace(hashtagRe.ReplaceAllString(body, ""))
}

// appendUnique returns dst followed by tags, keeping the first occurrence of
// every value.
func appendUnique(dst []string, tags ...string) []string {
	out := make([]string, 0, len(dst)+len(tags))
	seen := make(map[string]struct{}, len(dst)+len(tags))
	for _, group := range [][]string{dst, tags} {
		for _, t := range group {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
