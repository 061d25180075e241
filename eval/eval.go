package eval

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/oj"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
)

func init() {
	ir.RegisterExprFunc(Evaluate)
}

// Env is the variable environment of an expression.
type Env map[string]any

var programs = xsync.NewMapOf[string, *vm.Program]()

// programKey identifies a program compiled against env: the source plus
// the names and types of the environment.
func programKey(src string, env map[string]any) string {
	var b strings.Builder
	b.WriteString(src)
	for _, k := range slices.Sorted(maps.Keys(env)) {
		fmt.Fprintf(&b, "\x00%s:%T", k, env[k])
	}
	return b.String()
}

// compile checks src against env, so names in env take precedence over
// expr builtins of the same name (count, len, upper, ...).
func compile(src string, env Env) (*vm.Program, error) {
	key := programKey(src, env)
	if p, ok := programs.Load(key); ok {
		return p, nil
	}
	p, err := expr.Compile(src, expr.Env(map[string]any(env)), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	p, _ = programs.LoadOrStore(key, p)
	return p, nil
}

// NodeEnv returns the environment of expressions evaluated at node: its
// scalar properties, "parent" and "root" as generic maps, and the
// functions whereami(), getpath(path) and getenv(name). The three
// functions and the two maps hide properties of the same name.
func NodeEnv(node *ir.Node) (Env, error) {
	env := Env{}
	for _, k := range node.ScalarKeys() {
		env[k], _ = node.Get(k)
	}
	var err error
	env["parent"] = nil
	if p := node.Parent(); p != nil {
		if env["parent"], err = ir.ToAny(p); err != nil {
			return nil, err
		}
	}
	if env["root"], err = ir.ToAny(node.Root()); err != nil {
		return nil, err
	}
	env["whereami"] = func() string {
		return node.Path()
	}
	env["getpath"] = func(path string) (any, error) {
		v, err := node.Root().FindValue(path)
		if err != nil {
			return nil, err
		}
		return v.ToAny()
	}
	env["getenv"] = os.Getenv
	return env, nil
}

// Run evaluates src at node.
func Run(src string, node *ir.Node) (any, error) {
	env, err := NodeEnv(node)
	if err != nil {
		return nil, err
	}
	p, err := compile(src, env)
	if err != nil {
		return nil, err
	}
	res, err := vm.Run(p, map[string]any(env))
	if err != nil {
		return nil, err
	}
	if debug.Eval() {
		debug.Logf("eval %q at %s gave %v\n", src, node.Path(), res)
	}
	return res, nil
}

// Evaluate is Run with the result rendered as text: scalars as stored,
// maps and slices as JSON.
func Evaluate(src string, node *ir.Node) (string, error) {
	res, err := Run(src, node)
	if err != nil {
		return "", err
	}
	switch x := res.(type) {
	case map[string]any, []any:
		return oj.JSON(x, &oj.Options{Sort: true}), nil
	}
	return ir.FormatScalar(res)
}
