package palette

import (
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteValues(t *testing.T) {
	assert.Equal(t, []color.RGBA{
		{0, 100, 200, 255}, {20, 120, 220, 255}, {10, 110, 210, 255},
	}, Colors(Water))
	assert.Equal(t, []color.RGBA{
		{139, 69, 19, 255}, {160, 82, 45, 255}, {210, 180, 140, 255},
	}, Colors(Soil))
	assert.Equal(t, color.RGBA{200, 200, 200, 255}, UrbanGround)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, ChangeRed)
	assert.Equal(t, color.RGBA{255, 255, 0, 255}, ChangeYellow)
}

func TestEveryClassHasColors(t *testing.T) {
	for _, c := range Classes() {
		assert.NotEmpty(t, Colors(c), "class %s", c)
	}
	assert.Nil(t, Colors(Class(99)))
}

func TestColorsReturnsCopy(t *testing.T) {
	got := Colors(Road)
	got[0] = color.RGBA{1, 2, 3, 255}
	assert.Equal(t, color.RGBA{64, 64, 64, 255}, Colors(Road)[0])
}

func TestPickSamplesFromSet(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	set := Colors(Agricultural)
	seen := make(map[color.RGBA]bool)
	for range 200 {
		c := Pick(rng, Agricultural)
		require.Contains(t, set, c)
		seen[c] = true
	}
	assert.Len(t, seen, len(set), "200 draws should hit every colour")
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "vegetation", Vegetation.String())
	assert.Equal(t, "class(42)", Class(42).String())
}
