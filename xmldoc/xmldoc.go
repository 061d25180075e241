package xmldoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
)

const (
	// KindAttr marks the field kind of an element.
	KindAttr = ir.ShadowPrefix + "kind"

	kindArray  = "array"
	kindEmpty  = "empty"
	kindObject = "object"

	// namelessTag stands for the ir.Nameless field.
	namelessTag = "_"
	defaultRoot = "root"
)

// Decode reads an XML document. The root element becomes the returned
// node, named after its tag.
//
// An element whose only content is text stores that text under
// ir.Nameless and its attributes are ignored. Otherwise attributes become
// string properties and child elements become children under their tag;
// a repeated tag promotes the field to an array, and an element marked
// _kind="array" is always an array element. The reserved tags _ and _kind
// without a kind marker hold the Nameless and _kind scalars of their
// parent.
func Decode(r io.Reader, options ...Option) (*ir.Node, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, ir.ParseError("xml", err)
	}
	el := doc.Root()
	if el == nil {
		return nil, ir.ParseError("xml", fmt.Errorf("no root element"))
	}
	root := ir.NewNamed(fieldName(el))
	if err := decodeElement(root, el, 0); err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("xml decoded %s\n", root)
	}
	return root, nil
}

func fieldName(el *etree.Element) string {
	tag := el.FullTag()
	if tag == namelessTag {
		return ir.Nameless
	}
	return tag
}

// hasAttrs reports whether el carries attributes other than the kind
// marker.
func hasAttrs(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.FullKey() != KindAttr {
			return true
		}
	}
	return false
}

// isTextOnly reports whether el holds nothing but text. Whitespace alone
// counts only when there are no attributes to read instead.
func isTextOnly(el *etree.Element) bool {
	if len(el.ChildElements()) != 0 {
		return false
	}
	text := el.Text()
	if text == "" {
		return false
	}
	return strings.TrimSpace(text) != "" || !hasAttrs(el)
}

// isScalarElement reports whether c carries a reserved scalar of its
// parent rather than a field.
func isScalarElement(c *etree.Element, key string) bool {
	if key != ir.Nameless && key != KindAttr {
		return false
	}
	return len(c.Attr) == 0 && len(c.ChildElements()) == 0
}

func decodeElement(node *ir.Node, el *etree.Element, level int) error {
	if level > ir.MaxDepth {
		return ir.DepthError("xml document", ir.MaxDepth)
	}
	if isTextOnly(el) {
		node.Set(ir.Nameless, el.Text())
		return nil
	}
	for _, a := range el.Attr {
		k := a.FullKey()
		if k == KindAttr {
			continue
		}
		node.Set(k, a.Value)
	}
	// mixed content, or indentation
	if text := strings.TrimSpace(el.Text()); text != "" {
		node.Set(ir.Nameless, text)
	}
	for _, c := range el.ChildElements() {
		key := fieldName(c)
		if isScalarElement(c, key) {
			node.Set(key, c.Text())
			continue
		}
		var child *ir.Node
		switch c.SelectAttrValue(KindAttr, "") {
		case kindEmpty:
			node.CreateArray(key)
			continue
		case kindArray:
			child = arrayElement(node, key)
		default:
			child = node.CreateObject(key)
		}
		if err := decodeElement(child, c, level+1); err != nil {
			return err
		}
	}
	return nil
}

// arrayElement appends an element to the array at key, creating the
// array unless key already holds one or a child to promote.
func arrayElement(node *ir.Node, key string) *ir.Node {
	if node.IsArray(key) || node.IsObject(key) {
		return node.CreateObject(key)
	}
	return node.CreateArray(key).CreateObject()
}

// Encode writes node as an XML document.
//
// Scalars become attributes. A Nameless scalar becomes the element text
// when it is the only field, and a _ element otherwise; a _kind scalar is
// likewise written as a _kind element. Child fields become elements marked _kind="object" and
// array fields one element per item marked _kind="array". Null scalars
// are omitted.
func Encode(node *ir.Node, w io.Writer, options ...Option) error {
	o := newOpts(options)
	if debug.Encode() {
		debug.Logf("xml encoding %s\n", node)
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	tag := o.rootTag
	if tag == "" {
		tag = node.Name
	}
	if tag == "" {
		tag = defaultRoot
	}
	el := doc.CreateElement(tag)
	if err := encodeNode(el, node, 0); err != nil {
		return err
	}
	if o.indent >= 0 {
		settings := etree.NewIndentSettings()
		settings.Spaces = o.indent
		settings.PreserveLeafWhitespace = true
		doc.IndentWithSettings(settings)
	}
	_, err := doc.WriteTo(w)
	return err
}

func elementTag(key string) string {
	if key == ir.Nameless {
		return namelessTag
	}
	return key
}

func encodeNode(el *etree.Element, node *ir.Node, level int) error {
	if level > ir.MaxDepth {
		return ir.DepthError("xml encoding", ir.MaxDepth)
	}
	for k, v := range node.All() {
		switch v.Kind {
		case ir.ScalarKind:
			if v.IsNull() {
				continue
			}
			s, err := attrValue(v.Scalar)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			switch {
			case k == ir.Nameless && s != "" && node.Len() == 1:
				el.SetText(s)
			case k == ir.Nameless, k == KindAttr:
				el.CreateElement(elementTag(k)).SetText(s)
			default:
				el.CreateAttr(k, s)
			}
		case ir.ChildKind:
			c := el.CreateElement(elementTag(k))
			c.CreateAttr(KindAttr, kindObject)
			if err := encodeNode(c, v.Child, level+1); err != nil {
				return err
			}
		case ir.ArrayKind:
			if v.Array.Len() == 0 {
				el.CreateElement(elementTag(k)).CreateAttr(KindAttr, kindEmpty)
				continue
			}
			for _, elt := range v.Array.Nodes() {
				c := el.CreateElement(elementTag(k))
				c.CreateAttr(KindAttr, kindArray)
				if err := encodeNode(c, elt, level+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func attrValue(x any) (string, error) {
	s, err := ir.FormatScalar(x)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ir.ErrTypeMismatch, err)
	}
	return s, nil
}
