// Package config holds the runtime options shared by all frontends and the
// logger setup.
package config

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Defaults used when a flag is not given.
const (
	DefaultInstructionsPerSecond = 700
	DefaultTimerHz               = 60
	DefaultScale                 = 20
	DefaultForegroundColor       = 0x9FA8DA
	DefaultBackgroundColor       = 0x1A237E
)

// Options contains the settings of a single emulator run.
type Options struct {
	ROM string // path of the program to load

	InstructionsPerSecond int
	TimerHz               int
	Scale                 int    // window pixels per CHIP-8 pixel
	Seed                  uint64 // 0 seeds the random source from the clock

	ForegroundColor uint32 // 0xRRGGBB of a lit pixel
	BackgroundColor uint32 // 0xRRGGBB of an unlit pixel

	Debug bool
	Quiet bool
}

// Defaults returns options with every field set to its default value.
func Defaults() Options {
	return Options{
		InstructionsPerSecond: DefaultInstructionsPerSecond,
		TimerHz:               DefaultTimerHz,
		Scale:                 DefaultScale,
		ForegroundColor:       DefaultForegroundColor,
		BackgroundColor:       DefaultBackgroundColor,
	}
}

// Validate checks that the options describe a runnable configuration.
func (o Options) Validate() error {
	if o.ROM == "" {
		return errors.New("no program file given")
	}
	if o.TimerHz <= 0 {
		return fmt.Errorf("timer rate must be positive, got %d", o.TimerHz)
	}
	if o.InstructionsPerSecond < o.TimerHz {
		return fmt.Errorf("instruction rate %d is below the timer rate %d", o.InstructionsPerSecond, o.TimerHz)
	}
	if o.Scale < 1 || o.Scale > 64 {
		return fmt.Errorf("scale must be between 1 and 64, got %d", o.Scale)
	}
	if o.ForegroundColor > 0xFFFFFF || o.BackgroundColor > 0xFFFFFF {
		return errors.New("colors must be 0xRRGGBB values")
	}
	return nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
