// Package host drives the interpreter: it paces instruction batches and timer
// ticks, feeds keypad state in and hands finished frames to a frontend.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

// Framebuffer is the pixel grid handed to a frontend, indexed [x][y].
type Framebuffer = [internal.ScreenWidth][internal.ScreenHeight]uint8

// Keypad is the part of the VM an input source writes to.
type Keypad interface {
	SetKey(code uint8, pressed bool)
	ReleaseAllKeys()
}

// Frontend is a renderer and input source pair.
type Frontend interface {
	// PollInput drains pending platform events into keys and reports whether
	// the user asked to quit.
	PollInput(keys Keypad) (quit bool)
	// Render displays a finished frame.
	Render(pixels *Framebuffer) error
}

// Runner owns a VM for the duration of a run. None of its methods may be
// called concurrently.
type Runner struct {
	vm       *internal.C8VM
	frontend Frontend
	logger   *log.Logger

	instructionsPerSecond uint64
	timerHz               uint64

	frame   uint64
	waiting bool
}

// NewRunner returns a runner executing vm at the rates given in opts.
func NewRunner(vm *internal.C8VM, frontend Frontend, logger *log.Logger, opts config.Options) *Runner {
	return &Runner{
		vm:                    vm,
		frontend:              frontend,
		logger:                logger,
		instructionsPerSecond: uint64(opts.InstructionsPerSecond),
		timerHz:               uint64(opts.TimerHz),
	}
}

// stepsForFrame spreads the instruction rate over the frames of a second so
// that every second executes exactly InstructionsPerSecond steps.
func (r *Runner) stepsForFrame() int {
	n := r.frame % r.timerHz
	return int(r.instructionsPerSecond*(n+1)/r.timerHz - r.instructionsPerSecond*n/r.timerHz)
}

// Frame runs one display frame: poll input, execute this frame's batch of
// instructions, tick the timers once and render if the screen changed.
func (r *Runner) Frame() (bool, error) {
	if r.frontend.PollInput(r.vm) {
		return true, nil
	}

	steps := r.stepsForFrame()
	for i := 0; i < steps; i++ {
		status, err := r.vm.Step()
		if err != nil {
			return false, err
		}
		if status == internal.Halted {
			if !r.waiting {
				r.logger.Debug("Waiting for key press", log.String("pc", fmt.Sprintf("0x%03X", r.vm.PC())))
			}
			r.waiting = true
			break
		}
		r.waiting = false
	}

	r.vm.TickTimers()
	r.frame++

	if r.vm.IsDrawFlagSet() {
		pixels := r.vm.Pixels()
		if err := r.frontend.Render(&pixels); err != nil {
			return false, fmt.Errorf("rendering frame %d: %w", r.frame, err)
		}
		r.vm.UnsetDrawFlag()
	}
	return false, nil
}

// Run calls Frame at the timer rate until the frontend quits, ctx is
// cancelled or the program fails. Failures are returned, not logged.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.timerHz))
	defer ticker.Stop()

	for {
		quit, err := r.Frame()
		if err != nil {
			return err
		}
		if quit {
			r.logger.Debug("Quit requested", log.Int("frames", int(r.frame)))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() uint64 {
	return r.frame
}
