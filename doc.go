// Package doctree reads, writes and transforms hierarchical documents.
//
// A document is an ir.Node tree. It can be read from and written to JSON,
// XML, YAML and properties files, converted between them, patched with
// JSON patches, compared and queried.
//
// # Usage
//
//	node, err := doctree.Load("app.yaml")
//	node, err = doctree.Patch(node, []byte(`[{"op":"replace","path":"/port","value":9090}]`))
//	err = doctree.Save(node, "app.json")
//
//	lines, err := doctree.Diff(a, b)
//	err = doctree.WriteDiff(os.Stdout, lines, true)
//
//	names, err := doctree.Query(node, "$.servers[*].name")
//
// # Related Packages
//
//   - github.com/signadot/doctree/ir - the document tree
//   - github.com/signadot/doctree/codec - codecs by format
//   - github.com/signadot/doctree/eval - template expansion
//   - github.com/signadot/doctree/gomap - Go values
package doctree
