package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gerunddev/mdsite/internal/htmlnode"
)

// ErrUnsupportedBlockKind is returned for a block kind outside the known set
var ErrUnsupportedBlockKind = errors.New("unsupported block kind")

// RootTag is the tag of the branch wrapping every block of a document
const RootTag = "div"

// ToHTML converts a Markdown document to HTML
func ToHTML(doc string) (string, error) {
	root, err := ToHTMLNode(doc)
	if err != nil {
		return "", err
	}
	return htmlnode.Render(root)
}

// ToHTMLNode converts a Markdown document into a tree rooted at a div.
// The first block that fails aborts the whole document.
func ToHTMLNode(doc string) (*htmlnode.Branch, error) {
	blocks := SplitBlocks(doc)
	children := make([]htmlnode.Node, 0, len(blocks))
	for i, block := range blocks {
		node, err := BlockToNode(block, Classify(block))
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		children = append(children, node)
	}
	return htmlnode.NewBranch(RootTag, children), nil
}

// BlockToNode builds the tree node for a single classified block
func BlockToNode(block string, kind BlockKind) (htmlnode.Node, error) {
	switch kind {
	case Heading:
		return headingToNode(block)
	case CodeBlock:
		return codeToNode(block)
	case Quote:
		return quoteToNode(block)
	case UnorderedList:
		return listToNode(block, "ul", stripBullet)
	case OrderedList:
		return listToNode(block, "ol", stripOrderedMarker)
	case Paragraph:
		return inlineBranch("p", block)
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnsupportedBlockKind)
	}
}

// TextNodeToLeaf maps an inline node to its HTML leaf
func TextNodeToLeaf(n TextNode) (*htmlnode.Leaf, error) {
	switch n.Kind {
	case Plain:
		return htmlnode.Text(n.Text), nil
	case Bold:
		return htmlnode.NewLeaf("b", n.Text), nil
	case Italic:
		return htmlnode.NewLeaf("i", n.Text), nil
	case Code:
		return htmlnode.NewLeaf("code", n.Text), nil
	case Link:
		if n.URL == "" {
			return nil, fmt.Errorf("link %q: %w", n.Text, ErrMissingURL)
		}
		return htmlnode.NewLeaf("a", n.Text, htmlnode.Attr{Key: "href", Value: n.URL}), nil
	case Image:
		if n.URL == "" {
			return nil, fmt.Errorf("image %q: %w", n.Text, ErrMissingURL)
		}
		return htmlnode.NewLeaf("img", "",
			htmlnode.Attr{Key: "src", Value: n.URL},
			htmlnode.Attr{Key: "alt", Value: n.Text}), nil
	default:
		return nil, fmt.Errorf("%s: %w", n.Kind, ErrUnsupportedTextKind)
	}
}

// InlineNodes parses text and converts every inline node to a leaf
func InlineNodes(text string) ([]htmlnode.Node, error) {
	textNodes := ParseInline(text)
	nodes := make([]htmlnode.Node, 0, len(textNodes))
	for _, tn := range textNodes {
		leaf, err := TextNodeToLeaf(tn)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, leaf)
	}
	return nodes, nil
}

func inlineBranch(tag, text string) (*htmlnode.Branch, error) {
	children, err := InlineNodes(text)
	if err != nil {
		return nil, fmt.Errorf("<%s>: %w", tag, err)
	}
	return htmlnode.NewBranch(tag, children), nil
}

func headingToNode(block string) (htmlnode.Node, error) {
	level := HeadingLevel(block)
	if level == 0 {
		return nil, fmt.Errorf("invalid heading %q", block)
	}
	return inlineBranch(fmt.Sprintf("h%d", level), block[level+1:])
}

func codeToNode(block string) (htmlnode.Node, error) {
	if !isCodeBlock(block) {
		return nil, fmt.Errorf("invalid code block %q", block)
	}
	text := block[len(codeFence) : len(block)-len(codeFence)]
	code := htmlnode.NewBranch("code", []htmlnode.Node{htmlnode.Text(text)})
	return htmlnode.NewBranch("pre", []htmlnode.Node{code}), nil
}

func quoteToNode(block string) (htmlnode.Node, error) {
	lines := blockLines(block)
	for i, line := range lines {
		stripped, ok := strings.CutPrefix(line, quoteMark)
		if !ok {
			return nil, fmt.Errorf("invalid quote line %q", line)
		}
		lines[i] = strings.TrimPrefix(stripped, " ")
	}
	return inlineBranch("blockquote", strings.Join(lines, "\n"))
}

func listToNode(block, tag string, strip func(string) (string, error)) (htmlnode.Node, error) {
	lines := blockLines(block)
	items := make([]htmlnode.Node, 0, len(lines))
	for _, line := range lines {
		text, err := strip(line)
		if err != nil {
			return nil, err
		}
		item, err := inlineBranch("li", text)
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", tag, err)
		}
		items = append(items, item)
	}
	return htmlnode.NewBranch(tag, items), nil
}

func stripBullet(line string) (string, error) {
	text, ok := strings.CutPrefix(line, bulletMark)
	if !ok {
		return "", fmt.Errorf("invalid list item %q", line)
	}
	return text, nil
}

func stripOrderedMarker(line string) (string, error) {
	if _, ok := orderedMarker(line); !ok {
		return "", fmt.Errorf("invalid ordered list item %q", line)
	}
	_, text, _ := strings.Cut(line, " ")
	return text, nil
}
