package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path := args[0]
	return eachDoc(cfg.MainConfig, cc, args[1:], func(node *ir.Node, f format.Format) error {
		v, err := doctree.Get(node, path)
		if err != nil {
			return err
		}
		switch v.Kind {
		case ir.ChildKind:
			return cfg.writeDoc(cc.Out, v.Child, f)
		case ir.ArrayKind:
			wrap := ir.New()
			arr := wrap.CreateArray(ir.Nameless)
			for _, elt := range v.Array.Nodes() {
				c, err := elt.Clone()
				if err != nil {
					return err
				}
				arr.Add(c)
			}
			return cfg.writeDoc(cc.Out, wrap, f)
		}
		s, err := ir.FormatScalar(v.Scalar)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cc.Out, s)
		return err
	})
}
