// Package term renders the CHIP-8 screen in a terminal using termbox.
//
// Two pixel rows share one character cell through the upper half block glyph.
// Terminals only report key presses, so a pressed key is held down for a fixed
// number of frames and then released.
package term

import (
	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/host"
	"github.com/nsf/termbox-go"
)

const (
	upperHalfBlock = '▀'
	eventBuffer    = 64
)

var keyMap = map[rune]uint8{
	'1': 0x01, '2': 0x02, '3': 0x03, '4': 0x0C,
	'q': 0x04, 'w': 0x05, 'e': 0x06, 'r': 0x0D,
	'a': 0x07, 's': 0x08, 'd': 0x09, 'f': 0x0E,
	'z': 0x0A, 'x': 0x00, 'c': 0x0B, 'v': 0x0F,
}

// Terminal is a termbox backed frontend.
type Terminal struct {
	events chan termbox.Event
	done   chan struct{}

	holdFrames int
	held       [internal.KeyCount]int

	lit, unlit termbox.Attribute
}

var _ host.Frontend = (*Terminal)(nil)

// NewTerminal returns a terminal frontend that keeps keys pressed for about
// a tenth of a second.
func NewTerminal(opts config.Options) *Terminal {
	hold := opts.TimerHz / 10
	if hold < 1 {
		hold = 1
	}
	return &Terminal{
		events:     make(chan termbox.Event, eventBuffer),
		done:       make(chan struct{}),
		holdFrames: hold,
		lit:        termbox.ColorWhite,
		unlit:      termbox.ColorBlack,
	}
}

// Init takes over the terminal and starts reading its events.
func (t *Terminal) Init() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	termbox.HideCursor()
	go t.readEvents()
	return nil
}

// Close stops the event reader and restores the terminal.
func (t *Terminal) Close() {
	termbox.Interrupt()
	<-t.done
	termbox.Close()
}

func (t *Terminal) readEvents() {
	defer close(t.done)
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case t.events <- ev:
		default: // the emulator is not keeping up, drop the event
		}
	}
}

// PollInput releases expired keys and applies all queued terminal events.
func (t *Terminal) PollInput(keys host.Keypad) bool {
	for code := range t.held {
		if t.held[code] == 0 {
			continue
		}
		t.held[code]--
		if t.held[code] == 0 {
			keys.SetKey(uint8(code), false)
		}
	}

	for {
		select {
		case ev := <-t.events:
			if t.handleEvent(ev, keys) {
				return true
			}
		default:
			return false
		}
	}
}

func (t *Terminal) handleEvent(ev termbox.Event, keys host.Keypad) bool {
	switch ev.Type {
	case termbox.EventError:
		return true
	case termbox.EventKey:
		if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
			return true
		}
		code, ok := keyMap[ev.Ch]
		if !ok {
			return false
		}
		t.held[code] = t.holdFrames
		keys.SetKey(code, true)
	}
	return false
}

// Render draws the frame into the terminal back buffer and flushes it.
func (t *Terminal) Render(pixels *host.Framebuffer) error {
	for row := 0; row < internal.ScreenHeight/2; row++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			fg, bg := t.cellColors(pixels, x, row)
			termbox.SetCell(x, row, upperHalfBlock, fg, bg)
		}
	}
	return termbox.Flush()
}

// cellColors returns the colors of the cell showing pixel rows 2*row and 2*row+1.
func (t *Terminal) cellColors(pixels *host.Framebuffer, x, row int) (fg, bg termbox.Attribute) {
	fg, bg = t.unlit, t.unlit
	if pixels[x][2*row] == 1 {
		fg = t.lit
	}
	if pixels[x][2*row+1] == 1 {
		bg = t.lit
	}
	return fg, bg
}
