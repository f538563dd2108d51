package tile

import (
	"fmt"
	"image"

	"github.com/bodgit/stir/asset"
)

// Grid cuts the rectangle r of m into a grid of tiles.
func Grid(m image.Image, r image.Rectangle) (*asset.TileGrid, error) {
	if r.Dx()%tileSize != 0 || r.Dy()%tileSize != 0 || r.Empty() {
		return nil, fmt.Errorf("%w: frame is %dx%d", ErrBadSize, r.Dx(), r.Dy())
	}
	if !r.In(m.Bounds()) {
		return nil, fmt.Errorf("tile: frame %v outside image %v", r, m.Bounds())
	}

	g := asset.NewTileGrid(r.Dx()/tileSize, r.Dy()/tileSize)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			g.Set(x, y, At(m, r.Min.X+x*tileSize, r.Min.Y+y*tileSize))
		}
	}

	return g, nil
}

// Frames lays out frames of width by height pixels across b, left to
// right then top to bottom. A zero width or height means the whole of b
// in that direction and a zero count means as many frames as fit.
func Frames(b image.Rectangle, width, height, count int) ([]image.Rectangle, error) {
	if width == 0 {
		width = b.Dx()
	}
	if height == 0 {
		height = b.Dy()
	}
	if width <= 0 || height <= 0 || width%tileSize != 0 || height%tileSize != 0 {
		return nil, fmt.Errorf("%w: frame is %dx%d", ErrBadSize, width, height)
	}

	across, down := b.Dx()/width, b.Dy()/height
	if count == 0 {
		count = across * down
	}
	if count <= 0 || count > across*down {
		return nil, fmt.Errorf("tile: %d frames of %dx%d don't fit in %dx%d", count, width, height, b.Dx(), b.Dy())
	}

	frames := make([]image.Rectangle, count)
	for i := range frames {
		x, y := i%across, i/across
		frames[i] = image.Rect(0, 0, width, height).Add(b.Min).Add(image.Pt(x*width, y*height))
	}

	return frames, nil
}

// FrameGrids cuts m into frames and each frame into a tile grid.
func FrameGrids(m image.Image, width, height, count int) ([]*asset.TileGrid, error) {
	rects, err := Frames(m.Bounds(), width, height, count)
	if err != nil {
		return nil, err
	}

	grids := make([]*asset.TileGrid, len(rects))
	for i, r := range rects {
		if grids[i], err = Grid(m, r); err != nil {
			return nil, err
		}
	}

	return grids, nil
}
