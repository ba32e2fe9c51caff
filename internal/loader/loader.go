// Package loader reads CHIP-8 program files from disk.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/mnafees/c8vm/internal"
)

// ErrEmptyProgram is returned for zero length program files.
var ErrEmptyProgram = errors.New("program file is empty")

// Load reads the program stored at path. Files that can not fit into the
// program area are rejected before their content is read.
func Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading program file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("program path %s is a directory", path)
	}
	if info.Size() > internal.MaxProgramSize {
		return nil, fmt.Errorf("program file %s has %d bytes: %w", path, info.Size(), internal.ErrProgramTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyProgram)
	}
	return data, nil
}
