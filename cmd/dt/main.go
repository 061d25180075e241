package main

import (
	"context"

	"github.com/scott-cotton/cli"
	_ "github.com/signadot/doctree/eval"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
