package markdown

import (
	"regexp"
	"strings"
)

var (
	checkboxItemRe  = regexp.MustCompile(`^\s*[-*+][ \t]+\[([ xX])\][ \t]+(.*)$`)
	unorderedItemRe = regexp.MustCompile(`^\s*[-*+][ \t]+(.*)$`)
	orderedItemRe   = regexp.MustCompile(`^\s*\d+\.[ \t]+(.*)$`)
)

type listKind int

const (
	listNone listKind = iota
	listUnordered
	listOrdered
)

func (k listKind) tag() string {
	if k == listOrdered {
		return "ol"
	}
	return "ul"
}

// lists scans lines once. Each line is tried as a checkbox item, then a plain
// bullet, then a numbered item. Consecutive items of one kind share a list;
// a change of kind or any other line closes it. Checkbox items count as
// unordered.
func (p *pass) lists(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	var items []string
	kind := listNone

	flush := func() {
		if len(items) == 0 {
			return
		}
		tag := kind.tag()
		out = append(out, "", "<"+tag+">"+strings.Join(items, "")+"</"+tag+">", "")
		items = nil
		kind = listNone
	}

	for _, line := range lines {
		item, k := listItem(line)
		if k == listNone {
			flush()
			out = append(out, line)
			continue
		}
		if kind != listNone && kind != k {
			flush()
		}
		kind = k
		items = append(items, item)
	}
	flush()
	return strings.Join(out, "\n")
}

// listItem renders line as an <li> and reports its list kind, or listNone
// when the line is not an item.
func listItem(line string) (string, listKind) {
	if m := checkboxItemRe.FindStringSubmatch(line); m != nil {
		if m[1] == " " {
			return `<li class="task-item"><input type="checkbox" disabled> ` + m[2] + `</li>`, listUnordered
		}
		return `<li class="task-item completed"><input type="checkbox" disabled checked> ` + m[2] + `</li>`, listUnordered
	}
	if m := unorderedItemRe.FindStringSubmatch(line); m != nil {
		return "<li>" + m[1] + "</li>", listUnordered
	}
	if m := orderedItemRe.FindStringSubmatch(line); m != nil {
		return "<li>" + m[1] + "</li>", listOrdered
	}
	return "", listNone
}
