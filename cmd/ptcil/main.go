// Command ptcil is the compiler's command-line front end.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/opela-lang/ptcil/internal/cli"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&cli.CompileCmd{}, "")
	subcommands.Register(&cli.TokensCmd{}, "")
	subcommands.Register(&cli.ReplCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
