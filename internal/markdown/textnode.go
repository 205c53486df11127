package markdown

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingURL is returned for a link or image without a URL
	ErrMissingURL = errors.New("link and image nodes must have a URL")
	// ErrUnexpectedURL is returned for a non-link node carrying a URL
	ErrUnexpectedURL = errors.New("only link and image nodes may have a URL")
	// ErrUnsupportedTextKind is returned for a text kind outside the known set
	ErrUnsupportedTextKind = errors.New("unsupported text kind")
)

// TextKind is the semantic kind of an inline span
type TextKind int

const (
	Plain TextKind = iota
	Bold
	Italic
	Code
	Link
	Image
)

func (k TextKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Code:
		return "code"
	case Link:
		return "link"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("TextKind(%d)", int(k))
	}
}

// TextNode is a run of inline content
type TextNode struct {
	Text string
	Kind TextKind
	URL  string
}

// NewText creates a node of a kind that carries no URL
func NewText(text string, kind TextKind) TextNode {
	return TextNode{Text: text, Kind: kind}
}

// NewLink creates a link node
func NewLink(text, url string) TextNode {
	return TextNode{Text: text, Kind: Link, URL: url}
}

// NewImage creates an image node; text is the alt text
func NewImage(alt, url string) TextNode {
	return TextNode{Text: alt, Kind: Image, URL: url}
}

// Validate checks the URL invariant for the node's kind
func (n TextNode) Validate() error {
	switch n.Kind {
	case Link, Image:
		if n.URL == "" {
			return fmt.Errorf("%s %q: %w", n.Kind, n.Text, ErrMissingURL)
		}
	case Plain, Bold, Italic, Code:
		if n.URL != "" {
			return fmt.Errorf("%s %q: %w", n.Kind, n.Text, ErrUnexpectedURL)
		}
	default:
		return fmt.Errorf("%s: %w", n.Kind, ErrUnsupportedTextKind)
	}
	return nil
}

func (n TextNode) String() string {
	if n.URL == "" {
		return fmt.Sprintf("TextNode(%q, %s)", n.Text, n.Kind)
	}
	return fmt.Sprintf("TextNode(%q, %s, %q)", n.Text, n.Kind, n.URL)
}
