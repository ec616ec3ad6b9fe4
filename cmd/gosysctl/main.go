// gosysctl reads and writes FreeBSD kernel state via sysctl(3).
package main

import (
	"github.com/alecthomas/kong"

	"github.com/frobware/go-sysctl/cmd/gosysctl/cli"
)

func main() {
	var c cli.CLI
	ctx := kong.Parse(&c, cli.KongOptions()...)
	ctx.FatalIfErrorf(ctx.Run(&c))
}
