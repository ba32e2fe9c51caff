package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  error
		want int
	}{
		{name: "missing program", args: nil, want: 1},
		{name: "clean run", args: []string{"-q", "pong.ch8"}, want: 0},
		{name: "cancelled", args: []string{"-q", "pong.ch8"}, err: context.Canceled, want: 0},
		{name: "failure", args: []string{"-q", "pong.ch8"}, err: errors.New("boom"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			code := Main("chopper", tt.args, func(_ context.Context, opts config.Options, _ *log.Logger) error {
				called = true
				assert.Equal(t, "pong.ch8", opts.ROM)
				return tt.err
			})
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.args != nil, called)
		})
	}
}

func TestDescribeFailure(t *testing.T) {
	msg, cause, fields := describeFailure(errors.New("boom"))
	assert.Equal(t, "Emulation failed", msg)
	assert.EqualError(t, cause, "boom")
	assert.Empty(t, fields)

	wrapped := fmt.Errorf("frame 3: %w", &internal.ExecError{
		Addr: 0x2A0, Opcode: 0x8AB9, Fetched: true, Err: internal.ErrIllegalOpcode,
	})
	msg, cause, fields = describeFailure(wrapped)
	assert.Equal(t, "Program halted on fatal error", msg)
	assert.ErrorIs(t, cause, internal.ErrIllegalOpcode)
	require.Len(t, fields, 3)
	assert.Equal(t, []any{
		log.String("address", "0x2A0"),
		log.String("opcode", "0x8AB9"),
		log.String("instruction", "???"),
	}, fields)

	msg, cause, fields = describeFailure(&internal.ExecError{Addr: 0xFFF, Err: internal.ErrMemoryOutOfBounds})
	assert.Equal(t, "Program halted on fatal error", msg)
	assert.ErrorIs(t, cause, internal.ErrMemoryOutOfBounds)
	assert.Equal(t, []any{log.String("address", "0xFFF")}, fields)
}
