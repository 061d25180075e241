package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse  bool
	Encode bool
	Eval   bool
	GoMap  bool
	Patch  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("DOCTREE_DEBUG_PARSE")
	d.Encode = boolEnv("DOCTREE_DEBUG_ENCODE")
	d.Eval = boolEnv("DOCTREE_DEBUG_EVAL")
	d.GoMap = boolEnv("DOCTREE_DEBUG_GOMAP")
	d.Patch = boolEnv("DOCTREE_DEBUG_PATCH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Encode() bool {
	return d.Encode
}
func Eval() bool {
	return d.Eval
}
func GoMap() bool {
	return d.GoMap
}
func Patch() bool {
	return d.Patch
}
