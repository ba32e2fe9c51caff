package main

import (
	"context"
	"os"

	"github.com/mnafees/c8vm/internal/app"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/pkg/term"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	os.Exit(app.Main("chopper-term", os.Args[1:], run))
}

func run(ctx context.Context, opts config.Options, logger *log.Logger) error {
	terminal := term.NewTerminal(opts)
	if err := terminal.Init(); err != nil {
		return err
	}
	defer terminal.Close()

	return app.Run(ctx, opts, logger, terminal)
}
