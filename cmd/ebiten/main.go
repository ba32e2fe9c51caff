package main

import (
	"context"
	"os"

	"github.com/mnafees/c8vm/internal/app"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/pkg/ebiten"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	os.Exit(app.Main("chopper-ebiten", os.Args[1:], run))
}

func run(ctx context.Context, opts config.Options, logger *log.Logger) error {
	out := ebiten.NewOutput(opts)
	runner, err := app.NewRunner(opts, logger, out)
	if err != nil {
		return err
	}
	return out.Run(ctx, runner, "Chopper | CHIP-8 Emulator")
}
