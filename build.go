package stir

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/stir/asset"
	"github.com/bodgit/stir/manifest"
	"github.com/bodgit/stir/tile"
)

// ErrPinnedSize is returned when a pinned image's frames aren't single
// tiles
var ErrPinnedSize = errors.New("stir: pinned frames must be a single tile")

func (s *Stir) buildImage(img manifest.Image, m image.Image) ([]*asset.TileGrid, error) {
	width, height := img.Width, img.Height
	if img.Pinned {
		if width == 0 {
			width = asset.TileSize
		}
		if height == 0 {
			height = asset.TileSize
		}
		if width != asset.TileSize || height != asset.TileSize {
			return nil, ErrPinnedSize
		}
	}

	return tile.FrameGrids(tile.Quantize(m, img.Colors), width, height, img.Frames)
}

// buildGroup tiles every image in g and pools the tiles. Pinned images
// are pooled first, each as one contiguous run, then the tiled images are
// deduplicated into whatever is left.
func (s *Stir) buildGroup(g manifest.Group, resolve func(string) string, images map[string]image.Image) (*asset.Group, error) {
	frames := make([][]*asset.TileGrid, len(g.Images))
	for i, img := range g.Images {
		m, ok := images[resolve(img.File)]
		if !ok {
			return nil, fmt.Errorf("stir: image %q: %s not loaded", img.Name, img.File)
		}

		grids, err := s.buildImage(img, m)
		if err != nil {
			return nil, fmt.Errorf("stir: image %q: %w", img.Name, err)
		}
		frames[i] = grids
	}

	pool := asset.NewTilePool()
	for i, img := range g.Images {
		if !img.Pinned {
			continue
		}
		run := make([]asset.Tile, len(frames[i]))
		for f, grid := range frames[i] {
			run[f] = grid.TileAt(0, 0)
		}
		if _, err := pool.AddRun(run); err != nil {
			return nil, fmt.Errorf("stir: image %q: %w", img.Name, err)
		}
	}

	for i, img := range g.Images {
		if img.Pinned {
			continue
		}
		for _, grid := range frames[i] {
			for y := 0; y < grid.Height(); y++ {
				for x := 0; x < grid.Width(); x++ {
					if _, err := pool.Add(grid.TileAt(x, y)); err != nil {
						return nil, fmt.Errorf("stir: image %q: %w", img.Name, err)
					}
				}
			}
		}
	}

	built := make([]*asset.Image, len(g.Images))
	for i, img := range g.Images {
		built[i] = asset.NewImage(img.Name, img.Pinned, frames[i]...)
	}

	group := asset.NewGroup(g.Name, pool, built...)
	s.logger.Printf("Group \"%s\": %d images, %d tiles, signature %016x\n", g.Name, len(built), pool.Len(), group.Signature())

	return group, nil
}
