package ir

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/puzpuzpuz/xsync/v3"
)

// Template is a compiled interpolation template. References are written
//
//	$name  ${name}  $name:default  ${name:default}
//
// where name may be preceded by a "/" (resolve from the root) or by any
// number of "../" (resolve from an ancestor) and may itself be a slash
// separated path of single children ending in a property. "$$" is a
// literal "$" and "$[expr]" is an expression evaluated by the function
// registered with RegisterExprFunc.
type Template struct {
	raw  string
	segs []tmplSeg
}

type tmplSeg struct {
	lit    string
	ref    *reference
	expr   string
	isExpr bool
}

type reference struct {
	root bool
	up   int
	path []string
	name string
	def  string
}

// ExprFunc evaluates the source of a "$[...]" segment against node.
type ExprFunc func(src string, node *Node) (string, error)

var exprFunc ExprFunc

// RegisterExprFunc installs the evaluator for "$[...]" segments. Without
// one they are left as they are.
func RegisterExprFunc(f ExprFunc) {
	exprFunc = f
}

// Compile parses raw. Unterminated "${" and "$[" are kept literally.
func Compile(raw string) (*Template, error) {
	t := &Template{raw: raw}
	var lit strings.Builder
	flush := func() {
		if lit.Len() == 0 {
			return
		}
		t.segs = append(t.segs, tmplSeg{lit: lit.String()})
		lit.Reset()
	}
	i, n := 0, len(raw)
	for i < n {
		c := raw[i]
		if c != '$' || i+1 >= n {
			lit.WriteByte(c)
			i++
			continue
		}
		switch raw[i+1] {
		case '$':
			lit.WriteByte('$')
			i += 2
		case '{':
			end := strings.IndexByte(raw[i+2:], '}')
			if end == -1 {
				lit.WriteString(raw[i:])
				i = n
				continue
			}
			ref, err := parseReference(raw[i+2 : i+2+end])
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, raw)
			}
			flush()
			t.segs = append(t.segs, tmplSeg{ref: ref})
			i += end + 3
		case '[':
			end := closingBracket(raw, i+1)
			if end == -1 {
				lit.WriteString(raw[i:])
				i = n
				continue
			}
			flush()
			t.segs = append(t.segs, tmplSeg{expr: strings.TrimSpace(raw[i+2 : end]), isExpr: true})
			i = end + 1
		default:
			end := scanReference(raw, i+1)
			if end == i+1 {
				lit.WriteByte('$')
				i++
				continue
			}
			ref, err := parseReference(raw[i+1 : end])
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, raw)
			}
			flush()
			t.segs = append(t.segs, tmplSeg{ref: ref})
			i = end
		}
	}
	flush()
	return t, nil
}

// String returns the source of the template.
func (t *Template) String() string {
	return t.raw
}

// IsLiteral reports whether the template has no references.
func (t *Template) IsLiteral() bool {
	for i := range t.segs {
		if t.segs[i].ref != nil || t.segs[i].isExpr {
			return false
		}
	}
	return true
}

// closingBracket returns the index of the ']' matching the '[' at open.
func closingBracket(s string, open int) int {
	depth := 0
	for j := open; j < len(s); j++ {
		switch s[j] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || c == '/' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// scanReference returns the end of an unbraced reference starting at p,
// or p when there is none.
func scanReference(s string, p int) int {
	n := len(s)
	j := p
	if j < n && s[j] == '/' {
		j++
	}
	for strings.HasPrefix(s[j:], "../") {
		j += 3
	}
	start := j
	for j < n && isNameByte(s[j]) {
		j++
	}
	for j > start && s[j-1] == '/' {
		j--
	}
	if j == start {
		return p
	}
	if j+1 < n && s[j] == ':' && s[j+1] != '$' && !unicode.IsSpace(rune(s[j+1])) {
		j++
		for j < n && s[j] != '$' && !unicode.IsSpace(rune(s[j])) {
			j++
		}
	}
	return j
}

func parseReference(body string) (*reference, error) {
	name, def, _ := strings.Cut(body, ":")
	r := &reference{def: def}
	if strings.HasPrefix(name, "/") {
		r.root = true
		name = name[1:]
	}
	for strings.HasPrefix(name, "../") {
		r.up++
		name = name[3:]
	}
	parts := splitPath(name)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty reference %q", ErrBadTemplate, body)
	}
	r.path = parts[:len(parts)-1]
	r.name = parts[len(parts)-1]
	return r, nil
}

// Execute renders the template against node.
func (t *Template) Execute(node *Node) (string, error) {
	return t.execute(node, 0)
}

func (t *Template) execute(node *Node, level int) (string, error) {
	if len(t.segs) == 1 && t.segs[0].ref == nil && !t.segs[0].isExpr {
		return t.segs[0].lit, nil
	}
	var b strings.Builder
	for i := range t.segs {
		seg := &t.segs[i]
		switch {
		case seg.ref != nil:
			b.WriteString(seg.ref.resolve(node, level))
		case seg.isExpr:
			if exprFunc == nil {
				b.WriteString("$[" + seg.expr + "]")
				continue
			}
			v, err := exprFunc(seg.expr, node)
			if err != nil {
				return "", fmt.Errorf("error evaluating %q: %w", seg.expr, err)
			}
			b.WriteString(v)
		default:
			b.WriteString(seg.lit)
		}
	}
	return b.String(), nil
}

// resolve looks the reference up from node. Values which are templates
// themselves are expanded, at most MaxInterpolationDepth levels deep;
// beyond that the default is used.
func (r *reference) resolve(node *Node, level int) string {
	if level >= MaxInterpolationDepth {
		return r.def
	}
	target := node
	if r.root {
		target = node.Root()
	}
	for range r.up {
		if target.parent == nil {
			return r.def
		}
		target = target.parent
	}
	for _, p := range r.path {
		child, ok := target.GetObject(p)
		if !ok {
			return r.def
		}
		target = child
	}
	if target.IsNull(r.name) {
		return r.def
	}
	v, ok := target.LookupString(r.name)
	if !ok {
		return r.def
	}
	if !strings.Contains(v, "$") {
		return v
	}
	tmpl, err := target.Template(v)
	if err != nil {
		return v
	}
	res, err := tmpl.execute(target, level+1)
	if err != nil {
		return r.def
	}
	return res
}

func (node *Node) templates() *xsync.MapOf[string, *Template] {
	node.tmplOnce.Do(func() {
		node.tmpls = xsync.NewMapOf[string, *Template]()
	})
	return node.tmpls
}

// Template returns the compiled form of raw, compiled once per node.
func (node *Node) Template(raw string) (*Template, error) {
	cache := node.templates()
	if t, ok := cache.Load(raw); ok {
		return t, nil
	}
	t, err := Compile(raw)
	if err != nil {
		return nil, err
	}
	t, _ = cache.LoadOrStore(raw, t)
	return t, nil
}

// Extract interpolates raw against node.
func (node *Node) Extract(raw string) (string, error) {
	if !strings.Contains(raw, "$") {
		return raw, nil
	}
	t, err := node.Template(raw)
	if err != nil {
		return "", err
	}
	return t.Execute(node)
}

// GetExtracted is GetString with interpolation of values containing "$".
// Values failing to interpolate yield def.
func (node *Node) GetExtracted(key, def string) string {
	v, ok := node.LookupString(key)
	if !ok {
		return def
	}
	res, err := node.Extract(v)
	if err != nil {
		return def
	}
	return res
}
