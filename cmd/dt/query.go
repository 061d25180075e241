package main

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires one argument, a jsonpath", cli.ErrUsage)
	}
	path := args[0]
	if path == "" {
		return fmt.Errorf("%w: invalid query \"\"", cli.ErrUsage)
	}
	if path[0] != '$' {
		path = "$" + path
	}
	opts := &oj.Options{Sort: true, TimeFormat: "2006-01-02T15:04:05.999999999Z07:00"}
	if !cfg.Compact {
		opts.Indent = 2
	}
	return eachDoc(cfg.MainConfig, cc, args[1:], func(node *ir.Node, _ format.Format) error {
		res, err := doctree.Query(node, path)
		if err != nil {
			return err
		}
		for _, x := range res {
			if _, err := fmt.Fprintln(cc.Out, oj.JSON(x, opts)); err != nil {
				return err
			}
		}
		return nil
	})
}
