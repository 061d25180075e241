// Package eval expands templates across document trees and evaluates the
// "$[...]" expressions inside them with expr-lang.
//
// Importing eval registers its evaluator with package ir, after which
// Node.Extract and friends evaluate expressions instead of leaving them
// as written.
//
// # Usage
//
//	import _ "github.com/signadot/doctree/eval"
//
//	// "port: $[base + 1]" with base: 8080 expands to "port: 8081"
//	err := eval.ExpandTree(root)
//
// An expression sees the scalar properties of the node holding the
// template, the "parent" and "root" nodes as maps, and the functions
// whereami(), getpath(path) and getenv(name).
//
// # Related Packages
//
//   - github.com/signadot/doctree/ir - templates and trees
package eval
