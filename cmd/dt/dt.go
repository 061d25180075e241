package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func dtMain(cfg *MainConfig, cc *cli.Context, args []string) (err error) {
	defer func() {
		err = cfg.closeOut(err)
	}()
	args, err = cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if count(cfg.J, cfg.X, cfg.Y, cfg.P) > 1 {
		return fmt.Errorf("%w: must specify at most one of -j[son] -x[ml] -y[aml] -p[rops]", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	runErr := sub.Run(cc, args[1:])
	if errors.Is(runErr, cli.ErrUsage) {
		sub.Usage(cc, runErr)
		code := sub.Exit(cc, runErr)
		cfg.closeOut(nil)
		os.Exit(code)
	}
	return runErr
}

// closeOut closes the -o output file, if any. A close failure is returned
// unless err is already set.
func (cfg *MainConfig) closeOut(err error) error {
	if cfg.CloseOut == nil {
		return err
	}
	closeErr := cfg.CloseOut()
	cfg.CloseOut = nil
	if err != nil {
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", cfg.Out, closeErr)
	}
	return nil
}

func count(vs ...bool) int {
	ttl := 0
	for _, v := range vs {
		if v {
			ttl++
		}
	}
	return ttl
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}
