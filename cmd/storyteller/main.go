// Command storyteller generates short stories from a roll of nine story cubes
// with a local Ollama model.
//
// Usage:
//
//	storyteller <number of stories (1-10)> [--genre Krimi]
//	storyteller init
//	storyteller list [--limit N]
//	storyteller show <request-id>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/storyteller/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Main(ctx, os.Args[1:], os.Stdout, os.Stderr, cli.Deps{})
	stop()
	os.Exit(code)
}
