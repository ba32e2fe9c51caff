package ebiten

import (
	"context"
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFillsBuffer(t *testing.T) {
	opts := config.Defaults()
	opts.ForegroundColor = 0x112233
	opts.BackgroundColor = 0x000000
	o := NewOutput(opts)

	var fb host.Framebuffer
	fb[1][0] = 1
	fb[63][31] = 1
	require.NoError(t, o.Render(&fb))

	assert.Equal(t, []byte{0, 0, 0, 0xFF}, o.buffer[0:4])
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0xFF}, o.buffer[4:8])
	last := len(o.buffer) - 4
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0xFF}, o.buffer[last:])
	assert.Error(t, o.Render(nil))
}

func TestKeymapCoversKeypad(t *testing.T) {
	seen := map[uint8]bool{}
	for _, code := range keymap {
		seen[code] = true
	}
	assert.Len(t, seen, 16)
}

func TestLayout(t *testing.T) {
	w, h := NewOutput(config.Defaults()).Layout(1280, 640)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
}

func TestUpdateTerminates(t *testing.T) {
	frames := 0
	out := NewOutput(config.Defaults())
	out.ctx = context.Background()
	out.frame = func() (bool, error) {
		frames++
		return false, nil
	}

	require.NoError(t, out.update(false))
	assert.Equal(t, 1, frames)

	assert.ErrorIs(t, out.update(true), ebiten.Termination)
	assert.Equal(t, 1, frames, "closing window must not run another frame")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out.ctx = ctx
	assert.ErrorIs(t, out.update(false), ebiten.Termination)
	assert.Equal(t, 1, frames)
}

func TestUpdateReturnsFrameResult(t *testing.T) {
	boom := errors.New("boom")
	out := NewOutput(config.Defaults())
	out.ctx = context.Background()

	out.frame = func() (bool, error) { return false, boom }
	assert.ErrorIs(t, out.update(false), boom)

	out.frame = func() (bool, error) { return true, nil }
	assert.ErrorIs(t, out.update(false), ebiten.Termination)
}
