package parser

import (
	"regexp"
	"strings"
)

// frontMatterRe matches a leading --- block closed by a line that is exactly ---.
var frontMatterRe = regexp.MustCompile(`^---\r?\n(?:([\s\S]*?)\r?\n)?---(?:\r?\n|$)`)

// Value is a front-matter value: either a plain string or an ordered list.
type Value struct {
	Str    string
	List   []string
	IsList bool
}

// FrontMatter maps case-sensitive keys to values.
type FrontMatter map[string]Value

// String returns the plain string stored under key, or "" when the key is
// absent or holds a list.
func (fm FrontMatter) String(key string) string {
	v, ok := fm[key]
	if !ok || v.IsList {
		return ""
	}
	return v.Str
}

// List returns the list stored under key. A plain non-empty string is
// promoted to a one-element list; absent keys yield an empty list.
func (fm FrontMatter) List(key string) []string {
	v, ok := fm[key]
	if !ok {
		return []string{}
	}
	if v.IsList {
		return append([]string{}, v.List...)
	}
	if v.Str == "" {
		return []string{}
	}
	return []string{v.Str}
}

// ExtractFrontMatter splits content into its header block and body.
//
// A header is recognised only when content starts with a "---" line and a
// matching closing "---" line exists. Lines need a colon with a non-empty key
// and value; anything else is skipped. When no header is found the returned
// map is empty and body is content unchanged.
func ExtractFrontMatter(content string) (FrontMatter, string) {
	fm := FrontMatter{}
	loc := frontMatterRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return fm, content
	}

	var block string
	if loc[2] >= 0 {
		block = content[loc[2]:loc[3]]
	}
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		fm[key] = parseValue(value)
	}

	return fm, strings.TrimSpace(content[loc[1]:])
}

func parseValue(raw string) Value {
	if len(raw) >= 2 && strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		items := []string{}
		for _, item := range strings.Split(raw[1:len(raw)-1], ",") {
			item = unquote(strings.TrimSpace(item))
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return Value{List: items, IsList: true}
	}
	return Value{Str: unquote(raw)}
}
