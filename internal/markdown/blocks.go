package markdown

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockKind is the classification of a Markdown block
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	CodeBlock
	Quote
	UnorderedList
	OrderedList
)

func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case CodeBlock:
		return "code"
	case Quote:
		return "quote"
	case UnorderedList:
		return "unordered_list"
	case OrderedList:
		return "ordered_list"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

const (
	codeFence  = "```"
	quoteMark  = ">"
	bulletMark = "- "
)

// SplitBlocks splits a document on blank lines. Blocks are trimmed and empty
// blocks dropped.
func SplitBlocks(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	var blocks []string
	for _, block := range strings.Split(doc, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// Classify returns the kind of a block. Rules are checked in order and the
// first match wins; anything unmatched is a paragraph.
func Classify(block string) BlockKind {
	if HeadingLevel(block) > 0 {
		return Heading
	}
	if isCodeBlock(block) {
		return CodeBlock
	}

	lines := blockLines(block)
	if allLines(lines, func(line string) bool { return strings.HasPrefix(line, quoteMark) }) {
		return Quote
	}
	if allLines(lines, func(line string) bool { return strings.HasPrefix(line, bulletMark) }) {
		return UnorderedList
	}
	if isOrderedList(lines) {
		return OrderedList
	}
	return Paragraph
}

// HeadingLevel returns the number of leading '#' characters when the block
// is a heading, or 0 otherwise
func HeadingLevel(block string) int {
	level := 0
	for level < len(block) && block[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(block) || block[level] != ' ' {
		return 0
	}
	return level
}

func isCodeBlock(block string) bool {
	return len(block) >= 2*len(codeFence) &&
		strings.HasPrefix(block, codeFence) &&
		strings.HasSuffix(block, codeFence)
}

// orderedMarker parses the "N." token that starts a line
func orderedMarker(line string) (int, bool) {
	token, _, _ := strings.Cut(line, " ")
	digits, ok := strings.CutSuffix(token, ".")
	if !ok || digits == "" {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isOrderedList(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	for i, line := range lines {
		n, ok := orderedMarker(line)
		if !ok || n != i+1 {
			return false
		}
	}
	return true
}

// blockLines returns the lines of a block trimmed of surrounding whitespace
func blockLines(block string) []string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

func allLines(lines []string, pred func(string) bool) bool {
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		if !pred(line) {
			return false
		}
	}
	return true
}
