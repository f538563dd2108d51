/*
Package asset implements the deduplicated tile model that the STIR compiler
turns into firmware containers.

A Tile is an 8 by 8 block of RGB565 pixels. Tiles are values, two tiles with
identical pixels are the same Tile. Each Group owns a TilePool which assigns
every distinct Tile a dense, stable 16-bit index; the Group's Load Stream is
the pool's tiles concatenated in index order. Images reference pool tiles
through one TileGrid per animation frame.
*/
package asset

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	// TileSize is the width and height of a Tile in pixels
	TileSize = 8

	// TilePixels is the number of pixels in a Tile
	TilePixels = TileSize * TileSize

	// TileBytes is the number of bytes a Tile occupies in a Load Stream
	TileBytes = TilePixels * 2

	// MaxTiles is the capacity of a TilePool, indices are 16-bit
	MaxTiles = 1 << 16
)

var (
	// ErrPoolFull is returned when a TilePool cannot accept another tile
	ErrPoolFull = errors.New("asset: tile pool is full")

	// ErrPinnedRun is returned when a pinned run cannot be stored
	// contiguously
	ErrPinnedRun = errors.New("asset: pinned tiles cannot be stored contiguously")
)

// Tile is a single 8 by 8 block of RGB565 pixels in row-major order.
type Tile [TilePixels]uint16

// AppendBinary appends the little-endian encoding of t to b.
func (t Tile) AppendBinary(b []byte) []byte {
	for _, p := range t {
		b = append(b, byte(p), byte(p>>8))
	}
	return b
}

// TilePool is an ordered, deduplicated set of tiles. Indices are assigned
// once when a tile is first added and are never renumbered.
type TilePool struct {
	tiles []Tile
	index map[Tile]uint16
}

// NewTilePool returns an empty pool
func NewTilePool() *TilePool {
	return &TilePool{
		index: make(map[Tile]uint16),
	}
}

// Len returns the number of tiles in the pool
func (p *TilePool) Len() int {
	return len(p.tiles)
}

// Tile returns the tile stored at index i
func (p *TilePool) Tile(i uint16) Tile {
	return p.tiles[i]
}

// Index returns the index of t and whether t is in the pool at all.
func (p *TilePool) Index(t Tile) (uint16, bool) {
	i, ok := p.index[t]
	return i, ok
}

func (p *TilePool) push(t Tile) (uint16, error) {
	if len(p.tiles) >= MaxTiles {
		return 0, ErrPoolFull
	}
	i := uint16(len(p.tiles))
	p.tiles = append(p.tiles, t)
	p.index[t] = i
	return i, nil
}

// Add returns the index of t, appending it to the pool if it hasn't been
// seen before.
func (p *TilePool) Add(t Tile) (uint16, error) {
	if i, ok := p.index[t]; ok {
		return i, nil
	}
	return p.push(t)
}

// AddRun stores tiles as consecutive pool entries and returns the index of
// the first one. An identical run already in the pool is reused. A run
// that repeats a tile, or shares a tile with anything else already in the
// pool, can't be laid out contiguously and ErrPinnedRun is returned.
func (p *TilePool) AddRun(tiles []Tile) (uint16, error) {
	if len(tiles) == 0 {
		return 0, fmt.Errorf("%w: empty run", ErrPinnedRun)
	}

	if start, ok := p.index[tiles[0]]; ok {
		for i, t := range tiles {
			if j, ok := p.index[t]; !ok || int(j) != int(start)+i {
				return 0, fmt.Errorf("%w: tile %d already pooled elsewhere", ErrPinnedRun, i)
			}
		}
		return start, nil
	}

	seen := make(map[Tile]struct{}, len(tiles))
	for i, t := range tiles {
		if _, ok := p.index[t]; ok {
			return 0, fmt.Errorf("%w: tile %d already pooled elsewhere", ErrPinnedRun, i)
		}
		if _, ok := seen[t]; ok {
			return 0, fmt.Errorf("%w: tile %d repeated within run", ErrPinnedRun, i)
		}
		seen[t] = struct{}{}
	}

	if len(p.tiles)+len(tiles) > MaxTiles {
		return 0, ErrPoolFull
	}

	start, _ := p.push(tiles[0])
	for _, t := range tiles[1:] {
		p.push(t)
	}
	return start, nil
}

// LoadStream returns every tile in index order as one byte slice
func (p *TilePool) LoadStream() []byte {
	b := make([]byte, 0, len(p.tiles)*TileBytes)
	for _, t := range p.tiles {
		b = t.AppendBinary(b)
	}
	return b
}

// TileGrid is a rectangle of tile references, one animation frame.
type TileGrid struct {
	width, height int
	tiles         []Tile
}

// NewTileGrid returns a width by height grid of zero tiles
func NewTileGrid(width, height int) *TileGrid {
	return &TileGrid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
}

// Width returns the grid width in tiles
func (g *TileGrid) Width() int { return g.width }

// Height returns the grid height in tiles
func (g *TileGrid) Height() int { return g.height }

// TileAt returns the tile at column x, row y
func (g *TileGrid) TileAt(x, y int) Tile {
	return g.tiles[y*g.width+x]
}

// Set stores t at column x, row y
func (g *TileGrid) Set(x, y int, t Tile) {
	g.tiles[y*g.width+x] = t
}

// Image is a named sequence of frames.
type Image struct {
	name   string
	pinned bool
	frames []*TileGrid
}

// NewImage returns an image with the given frames. Pinned images address
// their frames as consecutive pool indices so every frame must be a single
// tile.
func NewImage(name string, pinned bool, frames ...*TileGrid) *Image {
	return &Image{
		name:   name,
		pinned: pinned,
		frames: frames,
	}
}

// Name returns the symbol name of the image
func (i *Image) Name() string { return i.name }

// IsPinned reports whether the image is pinned
func (i *Image) IsPinned() bool { return i.pinned }

// Frames returns the frames of the image in order
func (i *Image) Frames() []*TileGrid { return i.frames }

// Group bundles a TilePool with the images drawn from it.
type Group struct {
	name       string
	signature  uint64
	loadStream []byte
	pool       *TilePool
	images     []*Image
}

// NewGroup returns a group for the already populated pool. The Load Stream
// and Signature are computed from the pool so the pool must not be
// modified afterwards.
func NewGroup(name string, pool *TilePool, images ...*Image) *Group {
	ls := pool.LoadStream()
	return &Group{
		name:       name,
		signature:  xxhash.Sum64(ls),
		loadStream: ls,
		pool:       pool,
		images:     images,
	}
}

// Name returns the symbol name of the group
func (g *Group) Name() string { return g.name }

// Signature returns the 64-bit content hash of the Load Stream
func (g *Group) Signature() uint64 { return g.signature }

// LoadStream returns the payload bytes backing the pool
func (g *Group) LoadStream() []byte { return g.loadStream }

// Pool returns the group's tile pool
func (g *Group) Pool() *TilePool { return g.pool }

// Images returns the member images in a stable order
func (g *Group) Images() []*Image { return g.images }

// Sound is a named audio module.
type Sound struct {
	name string
}

// NewSound returns a sound with the given symbol name
func NewSound(name string) *Sound {
	return &Sound{name: name}
}

// Name returns the symbol name of the sound
func (s *Sound) Name() string { return s.name }
