package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	fontStartAddr  = 0x050
	stackSize      = 16
	maxProgramSize = totalMemory - pcStartAddr

	// MaxProgramSize is the largest ROM image that fits above the reserved area.
	MaxProgramSize = maxProgramSize

	ScreenWidth  = 64
	ScreenHeight = 32
	KeyCount     = 16
)

// Status reports whether the last Step executed an instruction or is stalled
// on FX0A waiting for a key press.
type Status uint8

const (
	// Running means the instruction executed and PC moved on.
	Running Status = iota
	// Halted means FX0A saw no pressed key; PC still points at it.
	Halted
)

func (s Status) String() string {
	if s == Halted {
		return "halted"
	}
	return "running"
}

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	regV       [16]uint8          // 16 general purpose 8-bit registers
	regI       uint16             // 16-bit register that is generally used to store memory addresses
	delayTimer uint8              // Delay timer
	soundTimer uint8              // Sound timer
	pc         uint16             // Program counter
	sp         uint8              // Stack pointer
	stack      [stackSize]uint16  // A stack of 16 16-bit values
	memory     [totalMemory]uint8 // 4 KB global memory

	drawFlag bool // Framebuffer changed since the host last rendered

	// A 16-bit integer to hold the current key values in the form of individual bits.
	// So when 0 is pushed in the keypad, the 0'th bit will be set and so on.
	key uint16

	// 64 px x 32 px display
	pixels [ScreenWidth][ScreenHeight]uint8

	rng RandomSource
}

// Option configures a C8VM at construction time.
type Option func(*C8VM)

// WithRandomSource replaces the generator used by CXNN.
func WithRandomSource(src RandomSource) Option {
	return func(vm *C8VM) {
		vm.rng = src
	}
}

var fontset = [...]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

const glyphSize = 5

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) *C8VM {
	vm := &C8VM{}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.rng == nil {
		vm.rng = NewRandomSource(0)
	}
	vm.Reset()
	return vm
}

// Reset returns the VM to its power-on state and installs the font.
// The keypad latch and the random source are left alone since both belong to the host.
func (vm *C8VM) Reset() {
	vm.memory = [totalMemory]uint8{}
	vm.regV = [16]uint8{}
	vm.stack = [stackSize]uint16{}
	vm.pixels = [ScreenWidth][ScreenHeight]uint8{}
	vm.regI = 0
	vm.sp = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.drawFlag = true
	copy(vm.memory[fontStartAddr:], fontset[:])
}

// LoadProgram loads a given CHIP-8 program into the VM's memory
func (vm *C8VM) LoadProgram(data []byte) error {
	if len(data) > maxProgramSize {
		return &LoadError{Size: len(data), Err: ErrProgramTooLarge}
	}
	copy(vm.memory[pcStartAddr:], data)
	return nil
}

// TickTimers decrements DT and ST, stopping at zero. The host calls it at 60 Hz.
func (vm *C8VM) TickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// SoundActive reports whether the buzzer would be sounding.
func (vm *C8VM) SoundActive() bool {
	return vm.soundTimer > 0
}

// PC returns the program counter.
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// I returns the index register.
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// V returns general purpose register x. Only the low nibble of x is used.
func (vm *C8VM) V(x uint8) uint8 {
	return vm.regV[x&0xF]
}

// SetKeymask sets the respective bit in the key
func (vm *C8VM) SetKeymask(code uint8) {
	vm.key |= 1 << (code & 0xF)
}

// UnsetKeymask unsets the respective bit in the key
func (vm *C8VM) UnsetKeymask(code uint8) {
	vm.key &^= 1 << (code & 0xF)
}

// SetKey records the pressed state of a single key.
func (vm *C8VM) SetKey(code uint8, pressed bool) {
	if pressed {
		vm.SetKeymask(code)
	} else {
		vm.UnsetKeymask(code)
	}
}

// ReleaseAllKeys clears the whole keypad latch.
func (vm *C8VM) ReleaseAllKeys() {
	vm.key = 0
}

// IsKeyPressed reports whether key code is currently held.
func (vm *C8VM) IsKeyPressed(code uint8) bool {
	mask := uint16(1) << (code & 0xF)
	return vm.key&mask == mask
}

// firstPressedKey returns the lowest numbered key that is held.
func (vm *C8VM) firstPressedKey() (uint8, bool) {
	for k := uint8(0); k < KeyCount; k++ {
		if vm.IsKeyPressed(k) {
			return k, true
		}
	}
	return 0, false
}

// Pixels returns a copy of the framebuffer, indexed [x][y]
func (vm *C8VM) Pixels() [ScreenWidth][ScreenHeight]uint8 {
	return vm.pixels
}

// Pixel reports whether the pixel at (x, y) is lit. Coordinates outside the
// screen are reported as unlit.
func (vm *C8VM) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return vm.pixels[x][y] == 1
}

// IsDrawFlagSet returns whether the framebuffer changed since UnsetDrawFlag
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// State is a value copy of the complete machine state.
type State struct {
	Memory     [totalMemory]uint8
	V          [16]uint8
	I          uint16
	PC         uint16
	SP         uint8
	Stack      [stackSize]uint16
	DelayTimer uint8
	SoundTimer uint8
	Keys       uint16
	Pixels     [ScreenWidth][ScreenHeight]uint8
}

// Snapshot returns a copy of the complete machine state.
func (vm *C8VM) Snapshot() State {
	return State{
		Memory:     vm.memory,
		V:          vm.regV,
		I:          vm.regI,
		PC:         vm.pc,
		SP:         vm.sp,
		Stack:      vm.stack,
		DelayTimer: vm.delayTimer,
		SoundTimer: vm.soundTimer,
		Keys:       vm.key,
		Pixels:     vm.pixels,
	}
}
