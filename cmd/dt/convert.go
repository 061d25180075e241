package main

import (
	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		cfg.Convert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	return eachDoc(cfg.MainConfig, cc, args, func(node *ir.Node, f format.Format) error {
		return cfg.writeDoc(cc.Out, node, f)
	})
}
