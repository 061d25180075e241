package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	JSONFormat Format = iota
	XMLFormat
	YAMLFormat
	PropertiesFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":          JSONFormat,
		"json":       JSONFormat,
		"x":          XMLFormat,
		"xml":        XMLFormat,
		"y":          YAMLFormat,
		"yml":        YAMLFormat,
		"yaml":       YAMLFormat,
		"p":          PropertiesFormat,
		"props":      PropertiesFormat,
		"properties": PropertiesFormat,
	}[strings.ToLower(v)]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromFile returns the format of a file name by its extension.
func FromFile(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return 0, fmt.Errorf("%w: no extension in %q", ErrBadFormat, name)
	}
	return ParseFormat(ext[1:])
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case XMLFormat:
		return []byte("xml"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case PropertiesFormat:
		return []byte("properties"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool       { return f == JSONFormat }
func (f Format) IsXML() bool        { return f == XMLFormat }
func (f Format) IsYAML() bool       { return f == YAMLFormat }
func (f Format) IsProperties() bool { return f == PropertiesFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case JSONFormat:
		return ".json"
	case XMLFormat:
		return ".xml"
	case YAMLFormat:
		return ".yaml"
	case PropertiesFormat:
		return ".properties"
	default:
		return ""
	}
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{JSONFormat, YAMLFormat, XMLFormat, PropertiesFormat}
}
