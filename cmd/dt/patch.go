package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch argument", cli.ErrUsage)
	}
	p, err := getPatch(cfg, args[0])
	if err != nil {
		return err
	}
	apply := doctree.Patch
	if cfg.Merge {
		apply = doctree.MergePatch
	}
	return eachDoc(cfg.MainConfig, cc, args[1:], func(node *ir.Node, f format.Format) error {
		res, err := apply(node, p)
		if err != nil {
			return err
		}
		return cfg.writeDoc(cc.Out, res, f)
	})
}

func getPatch(cfg *PatchConfig, arg string) ([]byte, error) {
	if cfg.String {
		return []byte(arg), nil
	}
	d, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read patch: %w", cli.ErrUsage, err)
	}
	return d, nil
}
