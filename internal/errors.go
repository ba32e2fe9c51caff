package internal

import (
	"errors"
	"fmt"
)

// Errors returned by the VM. All of them end the run.
var (
	ErrIllegalOpcode     = errors.New("illegal opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrProgramTooLarge   = errors.New("program too large")
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
)

// ExecError describes a failed Step: the address the instruction was fetched
// from, the raw instruction word and the underlying cause. Fetched is false
// when the instruction word itself could not be read, Opcode is then unset.
type ExecError struct {
	Addr    uint16
	Opcode  uint16
	Fetched bool
	Err     error
}

func (e *ExecError) Error() string {
	if !e.Fetched {
		return fmt.Sprintf("%04X: fetch: %v", e.Addr, e.Err)
	}
	return fmt.Sprintf("%04X: %04X (%s): %v", e.Addr, e.Opcode, Disassemble(e.Opcode), e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// LoadError is returned by LoadProgram when a ROM image is rejected.
type LoadError struct {
	Size int
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("program of %d bytes rejected, at most %d bytes fit: %v", e.Size, maxProgramSize, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// addrError annotates ErrMemoryOutOfBounds with the offending address.
func addrError(addr int) error {
	return fmt.Errorf("%w: address 0x%X", ErrMemoryOutOfBounds, addr)
}
