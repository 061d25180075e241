package doctree

import (
	"github.com/ohler55/ojg/jp"
	"github.com/signadot/doctree/ir"
)

// Query evaluates a JSONPath expression such as "$.sub[*].test1"
// against node, returning the matches as generic values.
func Query(node *ir.Node, path string) ([]any, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, ir.ParseError("json path", err)
	}
	data, err := ir.ToAny(node)
	if err != nil {
		return nil, err
	}
	return x.Get(data), nil
}

// Get returns the value at an ir path such as "/sub[2]" or
// "/sub[2]/test1". Paths ending in an element or a child give that node,
// others the property of the parent node.
func Get(node *ir.Node, path string) (ir.Value, error) {
	return node.FindValue(path)
}
