// Package terrain composes procedural land-cover scenes.
package terrain

import (
	"fmt"
	"strings"
)

// Mode selects the composition algorithm for a scene. The zero value is
// Mixed.
type Mode int

const (
	Mixed Mode = iota
	Urban
	Vegetation
	Water
	Agricultural
)

var modeNames = []string{
	Mixed:        "mixed",
	Urban:        "urban",
	Vegetation:   "vegetation",
	Water:        "water",
	Agricultural: "agricultural",
}

// Modes returns every known mode.
func Modes() []Mode {
	return []Mode{Mixed, Urban, Vegetation, Water, Agricultural}
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Known reports whether m is one of the declared modes.
func (m Mode) Known() bool {
	return m >= Mixed && m <= Agricultural
}

// ParseMode maps a case-insensitive name to a Mode. Unrecognized names
// return Mixed and false; callers that want the lenient behaviour can ignore
// the flag.
func ParseMode(name string) (Mode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return Mixed, false
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	*m, _ = ParseMode(string(text))
	return nil
}
