package htmlnode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingContent is returned when a leaf is rendered without content
	ErrMissingContent = errors.New("leaf node must have a value")
	// ErrMissingTag is returned when a branch is rendered without a tag
	ErrMissingTag = errors.New("branch node must have a tag")
	// ErrMissingChildren is returned when a branch is rendered with unset children
	ErrMissingChildren = errors.New("branch node must have a list of children")
)

// voidElements never carry a closing tag
var voidElements = map[string]bool{
	"area":  true,
	"br":    true,
	"col":   true,
	"embed": true,
	"hr":    true,
	"img":   true,
	"input": true,
	"link":  true,
	"meta":  true,
	"wbr":   true,
}

// Node is an element of the document tree. Leaf and Branch are its only
// implementations.
type Node interface {
	HTML() (string, error)
	node()
}

// Attr is a single HTML attribute
type Attr struct {
	Key   string
	Value string
}

// Attributes keeps attributes in the order they were added
type Attributes []Attr

// String renders attributes as key="value" pairs joined by a space
func (a Attributes) String() string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a))
	for _, attr := range a {
		parts = append(parts, fmt.Sprintf(`%s="%s"`, attr.Key, attr.Value))
	}
	return strings.Join(parts, " ")
}

// Leaf is a node without children. A leaf without a tag renders as raw text.
type Leaf struct {
	Tag   string
	Value *string
	Attrs Attributes
}

// NewLeaf creates a leaf with the given content
func NewLeaf(tag, value string, attrs ...Attr) *Leaf {
	return &Leaf{
		Tag:   tag,
		Value: &value,
		Attrs: attrs,
	}
}

// Text creates an untagged leaf
func Text(value string) *Leaf {
	return NewLeaf("", value)
}

func (*Leaf) node() {}

// HTML renders the leaf
func (l *Leaf) HTML() (string, error) {
	if l.Value == nil {
		return "", ErrMissingContent
	}
	if l.Tag == "" {
		return *l.Value, nil
	}

	open := openTag(l.Tag, l.Attrs)
	if *l.Value == "" && voidElements[l.Tag] {
		return open, nil
	}
	return open + *l.Value + "</" + l.Tag + ">", nil
}

// Branch is a tagged node with an ordered list of children
type Branch struct {
	Tag      string
	Children []Node
	Attrs    Attributes
}

// NewBranch creates a branch node. A nil children slice is replaced by an
// empty one.
func NewBranch(tag string, children []Node, attrs ...Attr) *Branch {
	if children == nil {
		children = []Node{}
	}
	return &Branch{
		Tag:      tag,
		Children: children,
		Attrs:    attrs,
	}
}

func (*Branch) node() {}

// HTML renders the branch and all of its descendants
func (b *Branch) HTML() (string, error) {
	if b.Tag == "" {
		return "", ErrMissingTag
	}
	if b.Children == nil {
		return "", fmt.Errorf("<%s>: %w", b.Tag, ErrMissingChildren)
	}

	var out strings.Builder
	out.WriteString(openTag(b.Tag, b.Attrs))
	for i, child := range b.Children {
		if child == nil {
			return "", fmt.Errorf("<%s> child %d: %w", b.Tag, i, ErrMissingContent)
		}
		html, err := child.HTML()
		if err != nil {
			return "", fmt.Errorf("<%s> child %d: %w", b.Tag, i, err)
		}
		out.WriteString(html)
	}
	out.WriteString("</" + b.Tag + ">")
	return out.String(), nil
}

// Render serializes a node to HTML
func Render(n Node) (string, error) {
	if n == nil {
		return "", ErrMissingContent
	}
	return n.HTML()
}

func openTag(tag string, attrs Attributes) string {
	if len(attrs) == 0 {
		return "<" + tag + ">"
	}
	return "<" + tag + " " + attrs.String() + ">"
}
