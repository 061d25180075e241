package gomap

import (
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// fieldInfo describes how a struct field maps to a property.
type fieldInfo struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache = xsync.NewMapOf[reflect.Type, []fieldInfo]()

// structFields returns the mapped fields of typ, including those promoted
// from embedded structs. The name comes from the doctree tag, then the
// json tag, then the Go field name; "-" skips the field.
func structFields(typ reflect.Type) []fieldInfo {
	if fs, ok := fieldCache.Load(typ); ok {
		return fs
	}
	fs := collectFields(typ, nil)
	fs, _ = fieldCache.LoadOrStore(typ, fs)
	return fs
}

func collectFields(typ reflect.Type, index []int) []fieldInfo {
	var res []fieldInfo
	for i := range typ.NumField() {
		f := typ.Field(i)
		name, omitEmpty, tagged := fieldTag(f)
		if name == "-" {
			continue
		}
		idx := append(append([]int(nil), index...), i)
		if f.Anonymous && !tagged && f.Type.Kind() == reflect.Struct {
			res = append(res, collectFields(f.Type, idx)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		res = append(res, fieldInfo{name: name, index: idx, omitEmpty: omitEmpty})
	}
	return res
}

func fieldTag(f reflect.StructField) (name string, omitEmpty, tagged bool) {
	tag, ok := f.Tag.Lookup("doctree")
	if !ok {
		tag, ok = f.Tag.Lookup("json")
	}
	if !ok {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, name != ""
}
