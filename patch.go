package doctree

import (
	"bytes"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
	"github.com/signadot/doctree/stream"
)

// MarshalJSON returns node as compact JSON.
func MarshalJSON(node *ir.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := stream.EncodeNode(node, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Patch applies an RFC 6902 JSON patch to doc, returning a new tree.
func Patch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, ir.ParseError("json patch", err)
	}
	if debug.Patch() {
		debug.Logf("applying %d patch operations to %s\n", len(ops), doc.Path())
	}
	d, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("error applying patch: %w", err)
	}
	return stream.DecodeBytes(out)
}

// MergePatch applies an RFC 7386 merge patch to doc, returning a new tree.
func MergePatch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	d, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("error applying merge patch: %w", err)
	}
	return stream.DecodeBytes(out)
}

// CreateMergePatch returns the merge patch turning from into to.
func CreateMergePatch(from, to *ir.Node) ([]byte, error) {
	a, err := MarshalJSON(from)
	if err != nil {
		return nil, err
	}
	b, err := MarshalJSON(to)
	if err != nil {
		return nil, err
	}
	return jsonpatch.CreateMergePatch(a, b)
}
