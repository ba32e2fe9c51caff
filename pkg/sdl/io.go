package sdl

import (
	"fmt"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/host"
	"github.com/veandco/go-sdl2/sdl"
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface

	pixelSize   int32
	screenColor uint32
	spriteColor uint32
}

var _ host.Frontend = (*IO)(nil)

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(opts config.Options) *IO {
	return &IO{
		pixelSize:   int32(opts.Scale),
		screenColor: opts.BackgroundColor,
		spriteColor: opts.ForegroundColor,
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return fmt.Errorf("getting window surface: %w", err)
	}
	return io.surface.FillRect(nil, io.screenColor)
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		io.window.Destroy()
		io.window = nil
	}
	sdl.Quit()
}

// PollInput drains the SDL event queue into the keypad. Escape and closing
// the window request a quit.
func (io *IO) PollInput(keys host.Keypad) bool {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			scancode := t.Keysym.Scancode
			if scancode == sdl.SCANCODE_ESCAPE {
				quit = true
				continue
			}
			code := keymap(scancode)
			if code == -1 {
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				keys.SetKey(uint8(code), true)
			case sdl.KEYUP:
				keys.SetKey(uint8(code), false)
			}
		case *sdl.WindowEvent:
			// key up events are lost while another window has focus
			if t.Event == sdl.WINDOWEVENT_FOCUS_LOST {
				keys.ReleaseAllKeys()
			}
		case *sdl.QuitEvent:
			quit = true
		}
	}
	return quit
}

// Render draws the current sprite configuration on screen
func (io *IO) Render(pixels *host.Framebuffer) error {
	if err := io.surface.FillRect(nil, io.screenColor); err != nil {
		return err
	}
	for w := int32(0); w < internal.ScreenWidth; w++ {
		for h := int32(0); h < internal.ScreenHeight; h++ {
			if pixels[w][h] == 1 {
				rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
				if err := io.surface.FillRect(rect, io.spriteColor); err != nil {
					return err
				}
			}
		}
	}
	return io.window.UpdateSurface()
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) int8 {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1
	case sdl.SCANCODE_2:
		return 0x2
	case sdl.SCANCODE_3:
		return 0x3
	case sdl.SCANCODE_4:
		return 0xC
	case sdl.SCANCODE_Q:
		return 0x4
	case sdl.SCANCODE_W:
		return 0x5
	case sdl.SCANCODE_E:
		return 0x6
	case sdl.SCANCODE_R:
		return 0xD
	case sdl.SCANCODE_A:
		return 0x7
	case sdl.SCANCODE_S:
		return 0x8
	case sdl.SCANCODE_D:
		return 0x9
	case sdl.SCANCODE_F:
		return 0xE
	case sdl.SCANCODE_Z:
		return 0xA
	case sdl.SCANCODE_X:
		return 0x0
	case sdl.SCANCODE_C:
		return 0xB
	case sdl.SCANCODE_V:
		return 0xF
	default:
		return -1
	}
}
