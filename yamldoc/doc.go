// Package yamldoc reads and writes documents as YAML.
//
// Reading goes through the generic, order preserving form of
// github.com/goccy/go-yaml, so the whole document is loaded before the
// tree is built.
package yamldoc
