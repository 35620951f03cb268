package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/anomaly/internal/camera"
)

var namedKeys = map[string]int32{
	"space":     rl.KeySpace,
	"up":        rl.KeyUp,
	"down":      rl.KeyDown,
	"left":      rl.KeyLeft,
	"right":     rl.KeyRight,
	"shift":     rl.KeyLeftShift,
	"ctrl":      rl.KeyLeftControl,
	"tab":       rl.KeyTab,
	"enter":     rl.KeyEnter,
	"backspace": rl.KeyBackspace,
}

// keyCode maps a key name from the config to a raylib key.
func keyCode(name string) (int32, bool) {
	name = strings.ToLower(name)
	if k, ok := namedKeys[name]; ok {
		return k, true
	}
	if len(name) != 1 {
		return 0, false
	}
	switch c := name[0]; {
	case c >= 'a' && c <= 'z':
		return rl.KeyA + int32(c-'a'), true
	case c >= '0' && c <= '9':
		return rl.KeyZero + int32(c-'0'), true
	}
	return 0, false
}

// keymap turns config bindings into raylib keys.
func keymap(bindings map[string]camera.Action) (map[int32]camera.Action, error) {
	keys := make(map[int32]camera.Action, len(bindings))
	for name, a := range bindings {
		k, ok := keyCode(name)
		if !ok {
			return nil, fmt.Errorf("gui: no window key for %q", name)
		}
		keys[k] = a
	}
	return keys, nil
}
