// Package gomap maps between document trees and Go values.
//
// # Usage
//
//	type Server struct {
//	    Name  string   `doctree:"name"`
//	    Ports []int    `json:"ports"`
//	    Tags  []string `doctree:",omitempty"`
//	}
//
//	node, report, err := gomap.ToNode(srv, gomap.WithClassNames(true))
//
//	var out Server
//	report, err = gomap.FromNode(node, &out)
//	for _, fe := range report.Errors {
//	    log.Printf("skipped %s", fe)
//	}
//
// Field names come from the doctree tag, then the json tag, then the Go
// field name. Mismatched fields are skipped and listed in the Report;
// FailFast makes the first one an error. Nesting is bounded by MaxDepth.
//
// # Related Packages
//
//   - github.com/signadot/doctree/ir - document trees
package gomap
