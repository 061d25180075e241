// Package codec provides a common interface to the document formats.
//
// # Usage
//
//	c, err := codec.ForFile("app.yaml")
//	node, err := c.Read(f)
//	err = codec.JSON(stream.WithIndent("\t")).Write(node, os.Stdout)
//
// # Related Packages
//
//   - github.com/signadot/doctree/stream - JSON
//   - github.com/signadot/doctree/xmldoc - XML
//   - github.com/signadot/doctree/yamldoc - YAML
//   - github.com/signadot/doctree/props - properties
package codec
