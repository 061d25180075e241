package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree/codec"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/stream"
	"github.com/signadot/doctree/xmldoc"
	"github.com/signadot/doctree/yamldoc"
)

type MainConfig struct {
	Compact bool   `cli:"name=c aliases=compact desc='write compact output'"`
	Root    string `cli:"name=root desc='root element name for xml output'"`
	Color   bool   `cli:"name=color desc='color diff output'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	X bool `cli:"name=x aliases=xml desc='do i/o in xml'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`
	P bool `cli:"name=p aliases=props desc='do i/o in properties'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// shorthand returns the format of the -j, -x, -y and -p flags.
func (cfg *MainConfig) shorthand() *format.Format {
	var f format.Format
	switch {
	case cfg.J:
		f = format.JSONFormat
	case cfg.X:
		f = format.XMLFormat
	case cfg.Y:
		f = format.YAMLFormat
	case cfg.P:
		f = format.PropertiesFormat
	default:
		return nil
	}
	return &f
}

// inFormat returns the format to read file in: the -I flag, a shorthand
// flag, the file extension and finally JSON.
func (cfg *MainConfig) inFormat(file string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if f := cfg.shorthand(); f != nil {
		return *f
	}
	if f, err := format.FromFile(file); err == nil {
		return f
	}
	return format.JSONFormat
}

// outFormat returns the format to write in, defaulting to the input
// format.
func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	if f := cfg.shorthand(); f != nil {
		return *f
	}
	return in
}

func (cfg *MainConfig) reader(f format.Format) codec.Codec {
	if f == format.XMLFormat && cfg.Root != "" {
		return codec.XML(xmldoc.WithRootTag(cfg.Root))
	}
	c, _ := codec.For(f)
	return c
}

func (cfg *MainConfig) writer(f format.Format) codec.Codec {
	switch f {
	case format.JSONFormat:
		if cfg.Compact {
			return codec.JSON()
		}
		return codec.JSON(stream.WithIndent("  "))
	case format.XMLFormat:
		opts := []xmldoc.Option{}
		if !cfg.Compact {
			opts = append(opts, xmldoc.WithIndent(2))
		}
		if cfg.Root != "" {
			opts = append(opts, xmldoc.WithRootTag(cfg.Root))
		}
		return codec.XML(opts...)
	case format.YAMLFormat:
		return codec.YAML(yamldoc.WithIndent(2))
	}
	c, _ := codec.For(f)
	return c
}

// colored reports whether diffs written to w get colors.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type ConvertConfig struct {
	*MainConfig
	Convert *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type ExpandConfig struct {
	*MainConfig
	Expand *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge  bool `cli:"name=m aliases=merge desc='apply an RFC 7386 merge patch'"`
	String bool `cli:"name=s desc='patch arg as string'"`

	Patch *cli.Command
}

type DiffConfig struct {
	*MainConfig
	MergePatch bool `cli:"name=m aliases=merge desc='print the merge patch from a to b'"`

	Diff *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Query *cli.Command
}
