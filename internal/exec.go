package internal

// Step fetches the instruction at PC, advances PC by 2 and executes it.
//
// FX0A with no key held rewinds PC onto itself and returns Halted, so calling
// Step again simply polls the keypad once more. Any error is wrapped in an
// *ExecError and leaves PC on the failing instruction.
func (vm *C8VM) Step() (Status, error) {
	addr := vm.pc
	opcode, err := vm.fetch()
	if err != nil {
		return Running, &ExecError{Addr: addr, Err: err}
	}
	vm.pc += 2

	status, err := vm.execute(opcode)
	if err != nil {
		vm.pc = addr
		return Running, &ExecError{Addr: addr, Opcode: opcode, Fetched: true, Err: err}
	}
	return status, nil
}

// fetch reads the big-endian instruction word at PC.
func (vm *C8VM) fetch() (uint16, error) {
	if int(vm.pc)+1 >= totalMemory {
		return 0, addrError(int(vm.pc))
	}
	return uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1]), nil
}

func (vm *C8VM) execute(opcode uint16) (Status, error) {
	x := uint8((opcode >> 8) & 0x000F) // the lower 4 bits of the high byte of the instruction
	y := uint8((opcode >> 4) & 0x000F) // the upper 4 bits of the low byte of the instruction
	n := uint8(opcode & 0x000F)        // the lowest 4 bits of the instruction
	kk := uint8(opcode & 0x00FF)       // the lowest 8 bits of the instruction
	nnn := opcode & 0x0FFF             // the lowest 12 bits of the instruction

	switch opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch opcode {
		case 0x00E0: // CLS
			vm.pixels = [ScreenWidth][ScreenHeight]uint8{}
			vm.drawFlag = true
		case 0x00EE: // RET
			if vm.sp == 0 {
				return Running, ErrStackUnderflow
			}
			vm.sp--
			vm.pc = vm.stack[vm.sp]
		default: // SYS nnn is not supported
			return Running, ErrIllegalOpcode
		}
	case 0x1000: // JP nnn
		vm.pc = nnn
	case 0x2000: // CALL nnn
		if int(vm.sp) >= stackSize {
			return Running, ErrStackOverflow
		}
		vm.stack[vm.sp] = vm.pc
		vm.sp++
		vm.pc = nnn
	case 0x3000: // SE Vx, kk
		vm.skipIf(vm.regV[x] == kk)
	case 0x4000: // SNE Vx, kk
		vm.skipIf(vm.regV[x] != kk)
	case 0x5000:
		if n != 0 {
			return Running, ErrIllegalOpcode
		}
		vm.skipIf(vm.regV[x] == vm.regV[y]) // SE Vx, Vy
	case 0x6000: // LD Vx, kk
		vm.regV[x] = kk
	case 0x7000: // ADD Vx, kk
		vm.regV[x] += kk
	case 0x8000:
		return Running, vm.executeALU(x, y, n)
	case 0x9000:
		if n != 0 {
			return Running, ErrIllegalOpcode
		}
		vm.skipIf(vm.regV[x] != vm.regV[y]) // SNE Vx, Vy
	case 0xA000: // LD I, nnn
		vm.regI = nnn
	case 0xB000: // JP V0, nnn
		vm.pc = nnn + uint16(vm.regV[0])
	case 0xC000: // RND Vx, kk
		vm.regV[x] = vm.rng.Uint8() & kk
	case 0xD000: // DRW Vx, Vy, n
		if n == 0 {
			return Running, ErrIllegalOpcode
		}
		return Running, vm.drawSprite(vm.regV[x], vm.regV[y], n)
	case 0xE000:
		switch kk {
		case 0x9E: // SKP Vx
			vm.skipIf(vm.IsKeyPressed(vm.regV[x]))
		case 0xA1: // SKNP Vx
			vm.skipIf(!vm.IsKeyPressed(vm.regV[x]))
		default:
			return Running, ErrIllegalOpcode
		}
	case 0xF000:
		return vm.executeMisc(x, kk)
	}
	return Running, nil
}

// skipIf steps over the next instruction. Every CHIP-8 instruction is two bytes wide.
func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc += 2
	}
}

// executeALU runs the 8XYn register group. VF is written last so that the
// flag survives when x is F.
func (vm *C8VM) executeALU(x, y, n uint8) error {
	switch n {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vm.regV[y]
	case 0x1: // OR Vx, Vy
		vm.regV[x] |= vm.regV[y]
	case 0x2: // AND Vx, Vy
		vm.regV[x] &= vm.regV[y]
	case 0x3: // XOR Vx, Vy
		vm.regV[x] ^= vm.regV[y]
	case 0x4: // ADD Vx, Vy
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = uint8(sum >> 8)
	case 0x5: // SUB Vx, Vy
		flag := boolToFlag(vm.regV[x] >= vm.regV[y])
		vm.regV[x] -= vm.regV[y]
		vm.regV[0xF] = flag
	case 0x6: // SHR Vx {, Vy}
		flag := vm.regV[x] & 0x01
		vm.regV[x] >>= 1
		vm.regV[0xF] = flag
	case 0x7: // SUBN Vx, Vy
		flag := boolToFlag(vm.regV[y] >= vm.regV[x])
		vm.regV[x] = vm.regV[y] - vm.regV[x]
		vm.regV[0xF] = flag
	case 0xE: // SHL Vx {, Vy}
		flag := vm.regV[x] >> 7
		vm.regV[x] <<= 1
		vm.regV[0xF] = flag
	default:
		return ErrIllegalOpcode
	}
	return nil
}

func (vm *C8VM) executeMisc(x, kk uint8) (Status, error) {
	switch kk {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		key, ok := vm.firstPressedKey()
		if !ok {
			vm.pc -= 2
			return Halted, nil
		}
		vm.regV[x] = key
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		vm.regI += uint16(vm.regV[x])
	case 0x29: // LD F, Vx
		vm.regI = fontStartAddr + glyphSize*uint16(vm.regV[x]&0xF)
	case 0x33: // LD B, Vx
		if err := vm.checkRange(vm.regI, 3); err != nil {
			return Running, err
		}
		vm.memory[vm.regI] = vm.regV[x] / 100
		vm.memory[vm.regI+1] = (vm.regV[x] / 10) % 10
		vm.memory[vm.regI+2] = vm.regV[x] % 10
	case 0x55: // LD [I], Vx
		if err := vm.checkRange(vm.regI, int(x)+1); err != nil {
			return Running, err
		}
		copy(vm.memory[vm.regI:], vm.regV[:x+1])
	case 0x65: // LD Vx, [I]
		if err := vm.checkRange(vm.regI, int(x)+1); err != nil {
			return Running, err
		}
		copy(vm.regV[:x+1], vm.memory[vm.regI:])
	default:
		return Running, ErrIllegalOpcode
	}
	return Running, nil
}

// drawSprite XORs an n-row sprite from memory[I] onto the framebuffer. The
// origin wraps around the screen, the sprite itself is clipped at the right
// and bottom edges. VF is set when a lit pixel is switched off.
func (vm *C8VM) drawSprite(vx, vy, n uint8) error {
	if err := vm.checkRange(vm.regI, int(n)); err != nil {
		return err
	}

	originX := int(vx) % ScreenWidth
	originY := int(vy) % ScreenHeight
	var collision uint8
	for row := 0; row < int(n); row++ {
		py := originY + row
		if py >= ScreenHeight {
			break
		}
		spriteByte := vm.memory[int(vm.regI)+row]
		for bit := 0; bit < 8; bit++ {
			px := originX + bit
			if px >= ScreenWidth {
				break
			}
			if spriteByte&(0x80>>bit) == 0 {
				continue
			}
			pixel := &vm.pixels[px][py]
			if *pixel == 1 {
				collision = 1
			}
			*pixel ^= 1
		}
	}
	vm.regV[0xF] = collision
	vm.drawFlag = true
	return nil
}

// checkRange verifies that count bytes starting at addr lie inside memory.
func (vm *C8VM) checkRange(addr uint16, count int) error {
	if end := int(addr) + count - 1; end >= totalMemory {
		return addrError(end)
	}
	return nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
