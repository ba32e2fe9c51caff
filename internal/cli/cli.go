// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mnafees/c8vm/internal/config"
)

// ParseFlags parses the arguments following the program name and returns the
// run options. A missing program file results in a *UsageError.
func ParseFlags(name string, args []string) (config.Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	opts := config.Defaults()
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{name: name, flags: flags, msg: err.Error()}
	}
	rest := flags.Args()
	if len(rest) == 0 {
		return opts, &UsageError{name: name, flags: flags, msg: "no CHIP-8 program given"}
	}
	if len(rest) > 1 {
		return opts, &UsageError{
			name:  name,
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s after the program file, options go first", rest[1]),
		}
	}
	opts.ROM = rest[0]

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	name  string
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the error, the command synopsis and all flags to stdout.
func (e *UsageError) ShowUsage() {
	if e.msg != "" && e.msg != flag.ErrHelp.Error() {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: %s [options] <CHIP-8 program>\n\n", e.name)
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

func readOptionFlags(flags *flag.FlagSet, opts *config.Options) {
	flags.IntVar(&opts.InstructionsPerSecond, "ips", opts.InstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&opts.TimerHz, "hz", opts.TimerHz, "delay/sound timer rate and frames per second")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "window pixels per CHIP-8 pixel")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number source, 0 picks one from the clock")
	flags.Var((*hexColor)(&opts.ForegroundColor), "fg", "color of lit pixels as RRGGBB")
	flags.Var((*hexColor)(&opts.BackgroundColor), "bg", "color of unlit pixels as RRGGBB")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
}

// hexColor is a flag.Value accepting RRGGBB, #RRGGBB or 0xRRGGBB.
type hexColor uint32

func (c *hexColor) String() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%06X", uint32(*c))
}

func (c *hexColor) Set(s string) error {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return fmt.Errorf("invalid color %q, expected RRGGBB", s)
	}
	*c = hexColor(v)
	return nil
}
