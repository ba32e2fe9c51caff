package term

import (
	"testing"

	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/host"
	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
)

type keypad map[uint8]bool

func (k keypad) SetKey(code uint8, pressed bool) { k[code] = pressed }
func (k keypad) ReleaseAllKeys() {
	for code := range k {
		k[code] = false
	}
}

func newTestTerminal() *Terminal {
	opts := config.Defaults()
	opts.TimerHz = 30 // hold keys for 3 frames
	return NewTerminal(opts)
}

func TestKeyPressIsHeldForFrames(t *testing.T) {
	term := newTestTerminal()
	keys := keypad{}

	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'w'}
	assert.False(t, term.PollInput(keys))
	assert.True(t, keys[0x5])

	assert.False(t, term.PollInput(keys))
	assert.False(t, term.PollInput(keys))
	assert.True(t, keys[0x5])

	assert.False(t, term.PollInput(keys))
	assert.False(t, keys[0x5])
}

func TestRepeatedPressExtendsHold(t *testing.T) {
	term := newTestTerminal()
	keys := keypad{}

	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'x'}
	term.PollInput(keys)
	term.PollInput(keys)
	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'x'}
	term.PollInput(keys)
	term.PollInput(keys)
	term.PollInput(keys)
	assert.True(t, keys[0x0])
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []termbox.Event{
		{Type: termbox.EventKey, Key: termbox.KeyEsc},
		{Type: termbox.EventKey, Key: termbox.KeyCtrlC},
		{Type: termbox.EventError},
	} {
		term := newTestTerminal()
		term.events <- ev
		assert.True(t, term.PollInput(keypad{}))
	}
}

func TestUnmappedKeyIgnored(t *testing.T) {
	term := newTestTerminal()
	keys := keypad{}
	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'p'}
	assert.False(t, term.PollInput(keys))
	assert.Empty(t, keys)
}

func TestCellColors(t *testing.T) {
	term := newTestTerminal()
	var fb host.Framebuffer
	fb[2][0] = 1
	fb[3][1] = 1
	fb[4][0], fb[4][1] = 1, 1

	tests := []struct {
		x      int
		fg, bg termbox.Attribute
	}{
		{x: 1, fg: termbox.ColorBlack, bg: termbox.ColorBlack},
		{x: 2, fg: termbox.ColorWhite, bg: termbox.ColorBlack},
		{x: 3, fg: termbox.ColorBlack, bg: termbox.ColorWhite},
		{x: 4, fg: termbox.ColorWhite, bg: termbox.ColorWhite},
	}
	for _, tt := range tests {
		fg, bg := term.cellColors(&fb, tt.x, 0)
		assert.Equal(t, tt.fg, fg, "x=%d", tt.x)
		assert.Equal(t, tt.bg, bg, "x=%d", tt.x)
	}
}
