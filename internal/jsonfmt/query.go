package jsonfmt

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Query validates text, selects the value at path (gjson path syntax, e.g.
// "user.name" or "items.#.id") and renders it in the given mode.
// A path that matches nothing returns ErrPathNotFound.
func Query(text, path string, mode Mode) (string, error) {
	if _, err := Parse(text); err != nil {
		return "", err
	}

	result := gjson.Get(text, path)
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return Format(result.Raw, mode)
}

// Colorize adds ANSI colors to formatted JSON for terminal output.
// The input is expected to be the output of Format.
func Colorize(formatted string) string {
	return string(pretty.Color([]byte(formatted), nil))
}
