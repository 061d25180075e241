package eval

import (
	"fmt"
	"strings"

	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
)

// ExpandTree interpolates every string property of the tree in place.
// Each value is expanded against the node holding it, so "$../x" reads
// from the parent of that node.
func ExpandTree(root *ir.Node) error {
	return root.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		return true, expandNode(n)
	})
}

func expandNode(n *ir.Node) error {
	for _, k := range n.ScalarKeys() {
		x, _ := n.Get(k)
		s, ok := x.(string)
		if !ok || !strings.Contains(s, "$") {
			continue
		}
		res, err := n.Extract(s)
		if err != nil {
			return fmt.Errorf("expanding %s/%s: %w", strings.TrimSuffix(n.Path(), "/"), k, err)
		}
		if debug.Eval() {
			debug.Logf("expanded %q to %q at %s\n", s, res, n.Path())
		}
		n.SetString(k, res)
	}
	return nil
}
