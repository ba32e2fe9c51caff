package main

import (
	"context"
	"os"
	"runtime"

	"github.com/mnafees/c8vm/internal/app"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/pkg/sdl"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	// SDL video calls have to come from the main thread
	runtime.LockOSThread()
}

func main() {
	os.Exit(app.Main("chopper", os.Args[1:], run))
}

func run(ctx context.Context, opts config.Options, logger *log.Logger) error {
	io := sdl.NewIO(opts)
	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		return err
	}
	defer io.Destroy()

	return app.Run(ctx, opts, logger, io)
}
