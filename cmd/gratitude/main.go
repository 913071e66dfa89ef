package main

import (
	"flag"
	"os"

	"gratitude/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	remote := flag.Bool("remote", false, "use the hosted service instead of the local notes file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	os.Exit(cli.Run(args, cli.Options{
		Remote: *remote,
	}))
}
