// Package app wires a program file, the interpreter and a frontend into a run.
package app

import (
	"context"
	"fmt"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/host"
	"github.com/mnafees/c8vm/internal/loader"
	"github.com/retroenv/retrogolib/log"
)

// NewRunner loads the program named in opts into a fresh VM and returns a
// runner driving it through fe.
func NewRunner(opts config.Options, logger *log.Logger, fe host.Frontend) (*host.Runner, error) {
	data, err := loader.Load(opts.ROM)
	if err != nil {
		return nil, err
	}

	vm := internal.NewC8VM(internal.WithRandomSource(internal.NewRandomSource(opts.Seed)))
	if err := vm.LoadProgram(data); err != nil {
		return nil, fmt.Errorf("loading %s: %w", opts.ROM, err)
	}

	logger.Info("Program loaded",
		log.String("file", opts.ROM),
		log.Int("size", len(data)),
		log.Int("ips", opts.InstructionsPerSecond),
		log.Int("hz", opts.TimerHz))
	return host.NewRunner(vm, fe, logger, opts), nil
}

// Run executes the program named in opts until the frontend quits, ctx is
// cancelled or the program fails.
func Run(ctx context.Context, opts config.Options, logger *log.Logger, fe host.Frontend) error {
	runner, err := NewRunner(opts, logger, fe)
	if err != nil {
		return err
	}
	return runner.Run(ctx)
}
