package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/cli"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

// RunFunc starts a frontend for a parsed set of options.
type RunFunc func(ctx context.Context, opts config.Options, logger *log.Logger) error

// Main is the shared body of the frontend binaries. It parses args, sets up
// logging and signal handling, calls run and returns the process exit code.
func Main(name string, args []string, run RunFunc) int {
	opts, err := cli.ParseFlags(name, args)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return 0
		}
		msg, cause, fields := describeFailure(err)
		logger.Error(msg, cause, fields...)
		return 1
	}
	return 0
}

// describeFailure returns the log message, cause and fields for a failed run.
// Interpreter errors carry the failing address and instruction.
func describeFailure(err error) (string, error, []any) {
	var execErr *internal.ExecError
	if !errors.As(err, &execErr) {
		return "Emulation failed", err, nil
	}

	fields := []any{log.String("address", fmt.Sprintf("0x%03X", execErr.Addr))}
	if execErr.Fetched {
		fields = append(fields,
			log.String("opcode", fmt.Sprintf("0x%04X", execErr.Opcode)),
			log.String("instruction", internal.Disassemble(execErr.Opcode)))
	}
	return "Program halted on fatal error", execErr.Err, fields
}
