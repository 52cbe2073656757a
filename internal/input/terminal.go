package input

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Color modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ColorEnabled resolves a color mode for output written to f. In auto mode
// color is used only for terminals and only when NO_COLOR is unset.
func ColorEnabled(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case "", ColorAuto:
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return IsTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
	}
}
