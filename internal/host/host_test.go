package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFrontend presses scripted keys at given poll counts and counts renders.
type fakeFrontend struct {
	polls     int
	renders   int
	last      Framebuffer
	quitAfter int
	presses   map[int]uint8
	renderErr error
}

func (f *fakeFrontend) PollInput(keys Keypad) bool {
	f.polls++
	if key, ok := f.presses[f.polls]; ok {
		keys.SetKey(key, true)
	}
	return f.quitAfter > 0 && f.polls > f.quitAfter
}

func (f *fakeFrontend) Render(pixels *Framebuffer) error {
	f.renders++
	f.last = *pixels
	return f.renderErr
}

func assemble(opcodes ...uint16) []byte {
	data := make([]byte, 0, 2*len(opcodes))
	for _, op := range opcodes {
		data = append(data, byte(op>>8), byte(op))
	}
	return data
}

func newRunner(t *testing.T, fe Frontend, opcodes ...uint16) (*Runner, *internal.C8VM) {
	t.Helper()
	vm := internal.NewC8VM(internal.WithRandomSource(internal.RandomSourceFunc(func() uint8 { return 0 })))
	require.NoError(t, vm.LoadProgram(assemble(opcodes...)))
	opts := config.Defaults()
	return NewRunner(vm, fe, config.CreateLogger(false, true), opts), vm
}

func TestStepsForFrame(t *testing.T) {
	r, _ := newRunner(t, &fakeFrontend{}, 0x1200)

	total := 0
	for i := 0; i < config.DefaultTimerHz; i++ {
		steps := r.stepsForFrame()
		assert.True(t, steps == 11 || steps == 12, "frame %d runs %d steps", i, steps)
		total += steps
		r.frame++
	}
	assert.Equal(t, config.DefaultInstructionsPerSecond, total)
}

func TestFrameRendersOnlyWhenDirty(t *testing.T) {
	fe := &fakeFrontend{}
	r, vm := newRunner(t, fe, 0x00E0, 0x1202)

	for i := 0; i < 3; i++ {
		quit, err := r.Frame()
		require.NoError(t, err)
		require.False(t, quit)
	}
	assert.Equal(t, 1, fe.renders)
	assert.False(t, vm.IsDrawFlagSet())
	assert.Equal(t, uint64(3), r.Frames())
}

func TestFrameRendersSprite(t *testing.T) {
	fe := &fakeFrontend{}
	r, _ := newRunner(t, fe, 0xF029, 0xD005, 0x1204)

	_, err := r.Frame()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), fe.last[0][0])
	assert.Equal(t, uint8(1), fe.last[0][1])
	assert.Equal(t, uint8(0), fe.last[1][1])
}

func TestFrameWaitsForKey(t *testing.T) {
	fe := &fakeFrontend{presses: map[int]uint8{3: 0x7}}
	r, vm := newRunner(t, fe, 0xF30A, 0x1202)

	for i := 0; i < 2; i++ {
		_, err := r.Frame()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x200), vm.PC())
	}

	_, err := r.Frame()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7), vm.V(3))
	assert.Equal(t, uint16(0x202), vm.PC())
}

func TestFrameTicksTimersOnce(t *testing.T) {
	r, vm := newRunner(t, &fakeFrontend{}, 0x6030, 0xF015, 0x1204)

	_, err := r.Frame()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x2F), vm.DelayTimer())
}

func TestFrameQuitSkipsExecution(t *testing.T) {
	r, vm := newRunner(t, &quitFrontend{}, 0x6101)

	quit, err := r.Frame()
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Equal(t, uint16(0x200), vm.PC())
	assert.Equal(t, uint64(0), r.Frames())
}

type quitFrontend struct{ fakeFrontend }

func (q *quitFrontend) PollInput(Keypad) bool { return true }

func TestFrameReturnsExecError(t *testing.T) {
	r, _ := newRunner(t, &fakeFrontend{}, 0x6101, 0x0123)

	_, err := r.Frame()
	require.ErrorIs(t, err, internal.ErrIllegalOpcode)
	var execErr *internal.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, uint16(0x202), execErr.Addr)
}

func TestFrameReturnsRenderError(t *testing.T) {
	renderErr := errors.New("surface lost")
	r, _ := newRunner(t, &fakeFrontend{renderErr: renderErr}, 0x1200)

	_, err := r.Frame()
	assert.ErrorIs(t, err, renderErr)
}

func TestRun(t *testing.T) {
	fe := &fakeFrontend{quitAfter: 3}
	r, _ := newRunner(t, fe, 0x1200)
	r.timerHz = 1000
	r.instructionsPerSecond = 1000

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, uint64(3), r.Frames())
}

func TestRunStopsOnCancel(t *testing.T) {
	r, _ := newRunner(t, &fakeFrontend{}, 0x1200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
}

func TestRunStopsOnError(t *testing.T) {
	r, _ := newRunner(t, &fakeFrontend{}, 0x00EE)
	assert.ErrorIs(t, r.Run(context.Background()), internal.ErrStackUnderflow)
}
