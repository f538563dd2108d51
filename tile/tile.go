/*
Package tile slices images into Sifteo tiles.

A tile is 8 by 8 pixels stored as 16-bit RGB565. Images are cut into frames,
each frame is cut into a grid of tiles, and identical tiles are later
shared through the group's tile pool. Optionally the image is first reduced
to a small palette, which makes identical tiles more likely.
*/
package tile

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/stir/asset"
	"github.com/ericpauley/go-quantize/quantize"
)

const tileSize = asset.TileSize

// ErrBadSize is returned when an image or frame isn't a whole number of
// tiles
var ErrBadSize = errors.New("tile: size is not a multiple of 8 pixels")

// RGB565 packs c into the 16-bit 5:6:5 format used by the hardware.
func RGB565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(b>>11)
}

// Quantize reduces m to at most colors colors. A colors value of zero or
// less returns m unchanged.
func Quantize(m image.Image, colors int) image.Image {
	if colors <= 0 {
		return m
	}

	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= colors {
		return m
	}

	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// At returns the tile whose top-left pixel is at (x, y) in m
func At(m image.Image, x, y int) asset.Tile {
	var t asset.Tile
	for ty := 0; ty < tileSize; ty++ {
		for tx := 0; tx < tileSize; tx++ {
			t[ty*tileSize+tx] = RGB565(m.At(x+tx, y+ty))
		}
	}
	return t
}
