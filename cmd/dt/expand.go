package main

import (
	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree/eval"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

func expand(cfg *ExpandConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Expand.Parse(cc, args)
	if err != nil {
		cfg.Expand.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	return eachDoc(cfg.MainConfig, cc, args, func(node *ir.Node, f format.Format) error {
		if err := eval.ExpandTree(node); err != nil {
			return err
		}
		return cfg.writeDoc(cc.Out, node, f)
	})
}
