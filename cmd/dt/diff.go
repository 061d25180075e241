package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, _, err := readDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	b, _, err := readDoc(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	lines, err := doctree.Diff(a, b)
	if err != nil {
		return err
	}
	if lines == nil {
		return nil
	}
	if cfg.MergePatch {
		p, err := doctree.CreateMergePatch(a, b)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(cc.Out, string(p)); err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	if err := doctree.WriteDiff(cc.Out, lines, cfg.colored(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
