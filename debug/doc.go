// Package debug holds env gated diagnostic switches and logging.
//
// Each switch is read once at start up from a DOCTREE_DEBUG_* variable
// parsed with strconv.ParseBool:
//
//	DOCTREE_DEBUG_PARSE   codec reads
//	DOCTREE_DEBUG_ENCODE  codec writes
//	DOCTREE_DEBUG_EVAL    template and expression evaluation
//	DOCTREE_DEBUG_GOMAP   skipped fields when mapping Go values
//	DOCTREE_DEBUG_PATCH   patch and diff operations
//
// Logf writes to stderr, coloring its prefix when stderr is a terminal.
package debug
