package markdown

import (
	"regexp"
	"strings"
)

var (
	imagePattern = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	// Not anchored against a leading "!": images must be extracted first.
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// Delimiters in the order they are applied
const (
	BoldDelimiter   = "**"
	ItalicDelimiter = "_"
	CodeDelimiter   = "`"
)

// ParseInline converts raw text into inline nodes. Bold, italic and code
// delimiters are split first, then images, then links.
func ParseInline(text string) []TextNode {
	nodes := []TextNode{NewText(text, Plain)}
	nodes = SplitDelimiter(nodes, BoldDelimiter, Bold)
	nodes = SplitDelimiter(nodes, ItalicDelimiter, Italic)
	nodes = SplitDelimiter(nodes, CodeDelimiter, Code)
	nodes = SplitImages(nodes)
	nodes = SplitLinks(nodes)
	return nodes
}

// SplitDelimiter splits every plain node containing delim. Parts at odd
// positions get kind; the others stay plain. Empty parts are kept and
// unbalanced delimiters are not an error.
func SplitDelimiter(nodes []TextNode, delim string, kind TextKind) []TextNode {
	out := make([]TextNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != Plain || !strings.Contains(n.Text, delim) {
			out = append(out, n)
			continue
		}
		for i, part := range strings.Split(n.Text, delim) {
			if i%2 == 0 {
				out = append(out, NewText(part, Plain))
			} else {
				out = append(out, NewText(part, kind))
			}
		}
	}
	return out
}

// SplitImages extracts ![alt](url) from plain nodes
func SplitImages(nodes []TextNode) []TextNode {
	return splitPattern(nodes, imagePattern, NewImage)
}

// SplitLinks extracts [text](url) from plain nodes
func SplitLinks(nodes []TextNode) []TextNode {
	return splitPattern(nodes, linkPattern, NewLink)
}

func splitPattern(nodes []TextNode, re *regexp.Regexp, build func(text, url string) TextNode) []TextNode {
	out := make([]TextNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != Plain {
			out = append(out, n)
			continue
		}
		matches := re.FindAllStringSubmatchIndex(n.Text, -1)
		if len(matches) == 0 {
			out = append(out, n)
			continue
		}

		rest := 0
		for _, m := range matches {
			if before := n.Text[rest:m[0]]; before != "" {
				out = append(out, NewText(before, Plain))
			}
			out = append(out, build(n.Text[m[2]:m[3]], n.Text[m[4]:m[5]]))
			rest = m[1]
		}
		if tail := n.Text[rest:]; tail != "" {
			out = append(out, NewText(tail, Plain))
		}
	}
	return out
}
