// Package format names the document formats doctree reads and writes.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	f, err = format.FromFile("conf/app.properties")
//	name := "out" + f.Suffix()
//
// # Related Packages
//
//   - github.com/signadot/doctree/codec - codecs by format
package format
