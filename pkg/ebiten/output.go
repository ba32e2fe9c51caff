// Package ebiten renders the CHIP-8 screen and reads the keypad through Ebiten.
package ebiten

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/host"
)

// Output is an ebiten.Game whose Update advances the emulator by one frame.
type Output struct {
	image  *ebiten.Image
	buffer []byte
	fg, bg [4]byte

	scale   int
	timerHz int
	frame   func() (bool, error)
	ctx     context.Context
}

var (
	_ host.Frontend = (*Output)(nil)
	_ ebiten.Game   = (*Output)(nil)
)

// NewOutput returns an Ebiten frontend configured from opts.
func NewOutput(opts config.Options) *Output {
	return &Output{
		buffer:  make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
		fg:      rgba(opts.ForegroundColor),
		bg:      rgba(opts.BackgroundColor),
		scale:   opts.Scale,
		timerHz: opts.TimerHz,
	}
}

// Run opens the window and drives runner from Ebiten's update loop until the
// window is closed, Escape is pressed, ctx is cancelled or the program fails.
// It must be called from the main goroutine.
func (o *Output) Run(ctx context.Context, runner *host.Runner, title string) error {
	o.ctx = ctx
	o.frame = runner.Frame
	o.fill(&host.Framebuffer{})

	ebiten.SetWindowSize(internal.ScreenWidth*o.scale, internal.ScreenHeight*o.scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(o.timerHz)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(o); err != nil {
		return err
	}
	return ctx.Err()
}

// Update implements ebiten.Game.
func (o *Output) Update() error {
	return o.update(ebiten.IsWindowBeingClosed())
}

func (o *Output) update(closing bool) error {
	if closing || o.ctx.Err() != nil {
		return ebiten.Termination
	}
	quit, err := o.frame()
	if err != nil {
		return err
	}
	if quit {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (o *Output) Draw(screen *ebiten.Image) {
	if o.image == nil {
		o.image = ebiten.NewImage(internal.ScreenWidth, internal.ScreenHeight)
	}
	o.image.WritePixels(o.buffer)
	screen.DrawImage(o.image, nil)
}

// Layout implements ebiten.Game. Ebiten scales the logical screen to the window.
func (o *Output) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth, internal.ScreenHeight
}

// PollInput copies the state of the mapped keyboard keys into the keypad.
func (o *Output) PollInput(keys host.Keypad) bool {
	for key, code := range keymap {
		keys.SetKey(code, ebiten.IsKeyPressed(key))
	}
	return ebiten.IsKeyPressed(ebiten.KeyEscape)
}

// Render stores the frame; Ebiten uploads it on the next Draw.
func (o *Output) Render(pixels *host.Framebuffer) error {
	if pixels == nil {
		return errors.New("nil framebuffer")
	}
	o.fill(pixels)
	return nil
}

// fill converts the framebuffer into row-major RGBA bytes.
func (o *Output) fill(pixels *host.Framebuffer) {
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			c := o.bg
			if pixels[x][y] == 1 {
				c = o.fg
			}
			copy(o.buffer[(y*internal.ScreenWidth+x)*4:], c[:])
		}
	}
}

func rgba(c uint32) [4]byte {
	return [4]byte{byte(c >> 16), byte(c >> 8), byte(c), 0xFF}
}

// keymap uses the same QWERTY layout as the SDL frontend.
var keymap = map[ebiten.Key]uint8{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

// String describes the frontend in log output.
func (o *Output) String() string {
	return fmt.Sprintf("ebiten %dx%d", internal.ScreenWidth*o.scale, internal.ScreenHeight*o.scale)
}
