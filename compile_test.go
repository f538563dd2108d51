package stir

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/bodgit/stir/asset"
	"github.com/bodgit/stir/cpp"
	"github.com/bodgit/stir/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red    = color.RGBA{0xff, 0x00, 0x00, 0xff}
	green  = color.RGBA{0x00, 0xff, 0x00, 0xff}
	blue   = color.RGBA{0x00, 0x00, 0xff, 0xff}
	yellow = color.RGBA{0xff, 0xff, 0x00, 0xff}
	white  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

var declared = regexp.MustCompile(`(?m)^extern (?:const )?[\w:]+ (\w+);$`)

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

// writeTiles writes a PNG made of solid 8x8 tiles, one row per slice
func writeTiles(t *testing.T, file string, rows ...[]color.Color) {
	m := image.NewRGBA(image.Rect(0, 0, len(rows[0])*8, len(rows)*8))
	for y, row := range rows {
		for x, c := range row {
			draw.Draw(m, image.Rect(x*8, y*8, x*8+8, y*8+8), image.NewUniform(c), image.Point{}, draw.Src)
		}
	}

	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

const testManifest = `
groups:
  - name: Game
    images:
      - name: Background
        file: background.png
      - name: Ball
        file: ball.png
        pinned: true
sounds:
  - name: Explosion
cues:
  - name: Music
    file: music.cue
`

const testCue = `FILE "music.bin" BINARY
  TRACK 01 AUDIO
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    INDEX 01 02:00:00
`

func setup(t *testing.T, yaml string) string {
	dir := t.TempDir()
	writeTiles(t, filepath.Join(dir, "background.png"),
		[]color.Color{red, blue},
		[]color.Color{red, blue},
	)
	writeTiles(t, filepath.Join(dir, "ball.png"), []color.Color{green, yellow, white})
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "music.cue"), []byte(testCue), 0644))

	file := filepath.Join(dir, "assets.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte(yaml), 0644))

	return file
}

func readFile(t *testing.T, file string) string {
	b, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	return string(b)
}

func TestCompile(t *testing.T) {
	file := setup(t, testManifest)
	dir := filepath.Dir(file)
	header, source := filepath.Join(dir, "assets.gen.h"), filepath.Join(dir, "assets.gen.cpp")

	s := New(cpp.FixedIDs{}, discard())
	require.NoError(t, s.CompileFile(file, header, source))

	hdr := readFile(t, header)
	var names []string
	for _, m := range declared.FindAllStringSubmatch(hdr, -1) {
		names = append(names, m[1])
	}
	assert.Equal(t, []string{"GameID", "Game", "Background", "Ball", "Explosion", "Music_Track01", "Music_Track02"}, names)
	assert.Contains(t, hdr, "#ifndef _ASSETS_GEN_H\n")
	assert.True(t, strings.HasSuffix(hdr, "#endif  // _ASSETS_GEN_H\n"))

	src := readFile(t, source)

	// Pinned frames come first in the pool, then the two distinct
	// background tiles
	assert.Contains(t, src, "    /* numTiles  */ 5,\n")
	assert.Contains(t, src, "    /* dataSize  */ 640,\n")
	assert.Contains(t, src, "    /* frames  */ 3,\n    /* index   */ 0,\n")
	assert.Contains(t, src, "    // Frame 0\n    0x0003,0x0004,\n    0x0003,0x0004,\n")
	assert.Contains(t, src, "uint32_t GameID_int = 1;\n")
	assert.Contains(t, src, "_SYSAudioModuleID Music_Track02 = {\n    /* id       */ 2,\n")
}

func TestCompileSequentialIDs(t *testing.T) {
	file := setup(t, testManifest)
	dir := filepath.Dir(file)
	source := filepath.Join(dir, "assets.cpp")

	s := New(new(cpp.SequentialIDs), discard())
	require.NoError(t, s.CompileFile(file, "", source))

	src := readFile(t, source)
	assert.Contains(t, src, "uint32_t GameID_int = 1;\n")
	assert.Contains(t, src, "_SYSAudioModuleID Explosion = {\n    /* id       */ 2,\n")
	assert.Contains(t, src, "_SYSAudioModuleID Music_Track01 = {\n    /* id       */ 3,\n")
	assert.Contains(t, src, "_SYSAudioModuleID Music_Track02 = {\n    /* id       */ 4,\n")
}

func TestCompileHeaderOpenFailure(t *testing.T) {
	file := setup(t, testManifest)
	dir := filepath.Dir(file)
	header, source := filepath.Join(dir, "missing", "assets.h"), filepath.Join(dir, "assets.cpp")

	s := New(cpp.FixedIDs{}, discard())
	require.NoError(t, s.CompileFile(file, header, source))
	require.Len(t, s.Warnings(), 1)
	assert.Contains(t, readFile(t, source), "_SYSAudioModuleID Music_Track02 = {\n")

	s.Strict = true
	err := s.CompileFile(file, header, source)
	assert.True(t, errors.Is(err, cpp.ErrSinkOpen))
	assert.NotContains(t, readFile(t, source), "Sifteo::AssetGroup Game")
}

func TestCompileErrors(t *testing.T) {
	tables := []struct {
		name     string
		manifest string
		err      error
	}{
		{
			"pinned frames repeat",
			"groups:\n  - name: Game\n    images:\n      - name: Tiles\n        file: background.png\n        pinned: true\n",
			asset.ErrPinnedRun,
		},
		{
			"pinned frame too big",
			"groups:\n  - name: Game\n    images:\n      - name: Ball\n        file: ball.png\n        width: 16\n        pinned: true\n",
			ErrPinnedSize,
		},
		{
			"cue name clash",
			"sounds:\n  - name: Music_Track01\ncues:\n  - name: Music\n    file: music.cue\n",
			nil,
		},
		{
			"missing image",
			"groups:\n  - name: Game\n    images:\n      - name: Ball\n        file: nothing.png\n",
			nil,
		},
		{
			"not an image",
			"groups:\n  - name: Game\n    images:\n      - name: Ball\n        file: music.cue\n",
			image.ErrFormat,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			file := setup(t, table.manifest)
			dir := filepath.Dir(file)
			header, source := filepath.Join(dir, "assets.h"), filepath.Join(dir, "assets.cpp")

			s := New(cpp.FixedIDs{}, discard())
			err := s.CompileFile(file, header, source)
			require.Error(t, err)
			if table.err != nil {
				assert.True(t, errors.Is(err, table.err), "%v", err)
			}

			// Nothing is written for an invalid model
			_, err = os.Stat(header)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestBuildGroupPinnedContiguous(t *testing.T) {
	file := setup(t, testManifest)
	m, err := manifest.Load(file)
	require.NoError(t, err)

	s := New(cpp.FixedIDs{}, discard())
	images, err := s.decodeImages(m.Files())
	require.NoError(t, err)
	require.Len(t, images, 2)

	g, err := s.buildGroup(m.Groups[0], m.Path, images)
	require.NoError(t, err)

	ball := g.Images()[1]
	require.True(t, ball.IsPinned())
	require.Len(t, ball.Frames(), 3)

	first, ok := g.Pool().Index(ball.Frames()[0].TileAt(0, 0))
	require.True(t, ok)
	for i, f := range ball.Frames() {
		idx, ok := g.Pool().Index(f.TileAt(0, 0))
		require.True(t, ok)
		assert.Equal(t, first+uint16(i), idx)
	}
}
