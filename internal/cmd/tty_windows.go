//go:build windows

package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// openTTY opens the console input and output buffers.
func openTTY() (in, out *os.File, err error) {
	in, err = os.OpenFile("CONIN$", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("no console available: %w", err)
	}
	out, err = os.OpenFile("CONOUT$", os.O_RDWR, 0)
	if err != nil {
		in.Close()
		return nil, nil, fmt.Errorf("no console available: %w", err)
	}
	return in, out, nil
}

// termWidth returns the console width, or 0 if unavailable.
func termWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
