// Command apiclient calls the mock API from the command line, keeping the
// session tokens in the configured credential store.
package main

import (
	"github.com/alecthomas/kong"
)

var cli CLI

func main() {
	ctx := kong.Parse(
		&cli,
		kong.UsageOnError(),
		kong.Name("apiclient"),
		kong.Description("Authenticated calls against the mock API"),
	)

	// See respective commands Run() methods
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
