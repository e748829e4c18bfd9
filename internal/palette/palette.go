// Package palette defines the land-cover classes and the fixed colour sets
// scenes are painted with.
package palette

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Class is a land-cover class.
type Class int

const (
	Water Class = iota
	Vegetation
	Urban
	Soil
	Road
	Agricultural
)

var classNames = map[Class]string{
	Water:        "water",
	Vegetation:   "vegetation",
	Urban:        "urban",
	Soil:         "soil",
	Road:         "road",
	Agricultural: "agricultural",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Classes returns every land-cover class in declaration order.
func Classes() []Class {
	return []Class{Water, Vegetation, Urban, Soil, Road, Agricultural}
}

// Fixed colours used by the composers and the change injector.
var (
	Sky          = mustHex("#87ceeb")
	UrbanGround  = mustHex("#c8c8c8")
	Outline      = mustHex("#000000")
	Furrow       = mustHex("#8b4513") // saddlebrown, also used for paths and clear-cuts
	Farmhouse    = mustHex("#a0522d")
	FieldGold    = mustHex("#ffd700")
	ChangeRed    = mustHex("#ff0000")
	ChangeYellow = mustHex("#ffff00")
)

// palettes is never mutated after package initialization.
var palettes = map[Class][]color.RGBA{
	Water:        hexes("#0064c8", "#1478dc", "#0a6ed2"),
	Vegetation:   hexes("#329632", "#46b446", "#1e781e"),
	Urban:        hexes("#969696", "#787878", "#b4b4b4"),
	Soil:         hexes("#8b4513", "#a0522d", "#d2b48c"),
	Road:         hexes("#404040", "#505050", "#606060"),
	Agricultural: hexes("#ffd700", "#daa520", "#f0e68c", "#9acd32"),
}

// Colors returns a copy of the representative colours for class c, or nil
// for an unknown class.
func Colors(c Class) []color.RGBA {
	set := palettes[c]
	if set == nil {
		return nil
	}
	out := make([]color.RGBA, len(set))
	copy(out, set)
	return out
}

// Pick samples one colour of class c uniformly. Unknown classes yield the
// outline colour.
func Pick(rng *rand.Rand, c Class) color.RGBA {
	set := palettes[c]
	if len(set) == 0 {
		return Outline
	}
	return set[rng.IntN(len(set))]
}

func hexes(codes ...string) []color.RGBA {
	out := make([]color.RGBA, len(codes))
	for i, code := range codes {
		out[i] = mustHex(code)
	}
	return out
}

func mustHex(code string) color.RGBA {
	c, err := colorful.Hex(code)
	if err != nil {
		panic(fmt.Sprintf("palette: bad colour literal %q: %v", code, err))
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
