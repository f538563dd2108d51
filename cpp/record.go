package cpp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/bodgit/stir/asset"
)

var (
	// ErrNoFrames is returned when an image has nothing to encode
	ErrNoFrames = errors.New("cpp: image has no frames")

	// ErrMissingTile is returned when an image references a tile that
	// isn't in its group's pool
	ErrMissingTile = errors.New("cpp: tile not in group pool")

	// ErrFrameSize is returned when the frames of a tiled image differ in
	// size
	ErrFrameSize = errors.New("cpp: frames differ in size")

	// ErrTooLarge is returned when an image's width, height or frame
	// count doesn't fit its 16-bit record field
	ErrTooLarge = errors.New("cpp: image too large")
)

// HeaderSize is the encoded size of an AssetGroupHeader in bytes
const HeaderSize = 24

// symbol is one public name in the generated code. Every symbol has a
// declaration line for the header and a definition block for the source,
// the Writer always emits both.
type symbol interface {
	declaration() string
	define(w *sink)
}

// AssetGroupHeader is the fixed header at the start of every group's
// container.
type AssetGroupHeader struct {
	HdrSize   uint32
	Reserved  uint32
	NumTiles  uint32
	DataSize  uint32
	Signature uint64
}

// MarshalBinary encodes the header in little-endian byte order
func (h AssetGroupHeader) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// AssetGroupID is the runtime identity record of a group.
type AssetGroupID struct {
	Group string
	ID    uint32
}

func (r *AssetGroupID) name() string { return r.Group + "ID" }

func (r *AssetGroupID) declaration() string {
	return fmt.Sprintf("extern Sifteo::AssetGroupID %s;", r.name())
}

func (r *AssetGroupID) define(w *sink) {
	w.printf("\nuint32_t %s_int = %d;\n", r.name(), r.ID)
	// The cubes field belongs to the firmware, it is only named here
	w.printf("Sifteo::AssetGroupID %s = {{ %s_int, (uint32_t)0, (uint32_t)0, %s.cubes }};\n", r.name(), r.name(), r.name())
}

// AssetGroup is a group's header and Load Stream laid out as one aggregate
// so that HdrSize+DataSize spans it exactly.
type AssetGroup struct {
	Name   string
	Header AssetGroupHeader
	Data   []byte
}

// MarshalBinary encodes the header followed by the Load Stream
func (r *AssetGroup) MarshalBinary() ([]byte, error) {
	b, err := r.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(b, r.Data...), nil
}

func (r *AssetGroup) declaration() string {
	return fmt.Sprintf("extern Sifteo::AssetGroup %s;", r.Name)
}

func (r *AssetGroup) define(w *sink) {
	w.printf("\n"+
		"static const struct {\n"+
		indent+"struct _SYSAssetGroupHeader hdr;\n"+
		indent+"uint8_t data[%d];\n"+
		"} %s_data = {{\n", len(r.Data), r.Name)
	w.printf(indent+"/* hdrSize   */ sizeof(struct _SYSAssetGroupHeader),\n"+
		indent+"/* reserved  */ %d,\n"+
		indent+"/* numTiles  */ %d,\n"+
		indent+"/* dataSize  */ %d,\n"+
		indent+"/* signature */ 0x%016x,\n"+
		"}, {\n", r.Header.Reserved, r.Header.NumTiles, r.Header.DataSize, r.Header.Signature)
	w.writeArray(r.Data)
	w.printf("}};\n\n"+
		"Sifteo::AssetGroup %s = {{ &%s_data.hdr, %s.cubes }};\n", r.Name, r.Name, r.Name)
}

// Image is an encoded image, either a *PinnedAssetImage or an *AssetImage.
type Image interface {
	symbol
	isImage()
}

// PinnedAssetImage addresses Frames consecutive pool tiles starting at
// Index.
type PinnedAssetImage struct {
	Name   string
	Width  uint16
	Height uint16
	Frames uint16
	Index  uint16
}

func (*PinnedAssetImage) isImage() {}

// MarshalBinary encodes the record in little-endian byte order
func (r *PinnedAssetImage) MarshalBinary() ([]byte, error) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:], r.Width)
	binary.LittleEndian.PutUint16(b[2:], r.Height)
	binary.LittleEndian.PutUint16(b[4:], r.Frames)
	binary.LittleEndian.PutUint16(b[6:], r.Index)
	return b, nil
}

func (r *PinnedAssetImage) declaration() string {
	return fmt.Sprintf("extern const Sifteo::PinnedAssetImage %s;", r.Name)
}

func (r *PinnedAssetImage) define(w *sink) {
	w.printf("\n"+
		"const Sifteo::PinnedAssetImage %s = {\n"+
		indent+"/* width   */ %d,\n"+
		indent+"/* height  */ %d,\n"+
		indent+"/* frames  */ %d,\n"+
		indent+"/* index   */ %d,\n"+
		"};\n", r.Name, r.Width, r.Height, r.Frames, r.Index)
}

// AssetImage is an uncompressed tile map. Tiles holds Width*Height*Frames
// pool indices, frame by frame, each frame row by row.
type AssetImage struct {
	Name   string
	Width  uint16
	Height uint16
	Frames uint16
	Tiles  []uint16
}

func (*AssetImage) isImage() {}

// MarshalTiles encodes the tile index array in little-endian byte order
func (r *AssetImage) MarshalTiles() []byte {
	b := make([]byte, 2*len(r.Tiles))
	for i, t := range r.Tiles {
		binary.LittleEndian.PutUint16(b[2*i:], t)
	}
	return b
}

func (r *AssetImage) declaration() string {
	return fmt.Sprintf("extern const Sifteo::AssetImage %s;", r.Name)
}

func (r *AssetImage) define(w *sink) {
	w.printf("\nstatic const uint16_t %s_tiles[] = {\n", r.Name)

	perFrame := int(r.Width) * int(r.Height)
	for f := 0; f < int(r.Frames); f++ {
		w.printf(indent+"// Frame %d\n", f)
		for y := 0; y < int(r.Height); y++ {
			w.printf(indent)
			for x := 0; x < int(r.Width); x++ {
				w.printf("0x%04x,", r.Tiles[f*perFrame+y*int(r.Width)+x])
			}
			w.printf("\n")
		}
	}

	w.printf("};\n\n"+
		"const Sifteo::AssetImage %s = {\n"+
		indent+"/* width   */ %d,\n"+
		indent+"/* height  */ %d,\n"+
		indent+"/* frames  */ %d,\n"+
		indent+"/* tiles   */ %s_tiles,\n"+
		"};\n", r.Name, r.Width, r.Height, r.Frames, r.Name)
}

// SoundKind is the type of an audio module
type SoundKind uint32

const (
	// Sample is an uncompressed sample
	Sample SoundKind = iota
)

func (k SoundKind) String() string {
	switch k {
	case Sample:
		return "Sample"
	}
	return fmt.Sprintf("SoundKind(%d)", uint32(k))
}

// AudioModuleID is the runtime record of a sound.
type AudioModuleID struct {
	Name string
	ID   uint32
	Kind SoundKind
}

// MarshalBinary encodes the record in little-endian byte order
func (r *AudioModuleID) MarshalBinary() ([]byte, error) {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[0:], r.ID)
	binary.LittleEndian.PutUint32(b[12:], uint32(r.Kind))
	return b, nil
}

func (r *AudioModuleID) declaration() string {
	return fmt.Sprintf("extern _SYSAudioModuleID %s;", r.Name)
}

func (r *AudioModuleID) define(w *sink) {
	w.printf("\n"+
		"_SYSAudioModuleID %s = {\n"+
		indent+"/* id       */ %d,\n"+
		indent+"/* reserved */ 0,\n"+
		indent+"/* reserved */ 0,\n"+
		indent+"/* type     */ %s,\n"+
		"};\n", r.Name, r.ID, r.Kind)
}

// EncodeHeader returns the container header for g
func EncodeHeader(g *asset.Group) AssetGroupHeader {
	return AssetGroupHeader{
		HdrSize:   uint32(HeaderSize),
		NumTiles:  uint32(g.Pool().Len()),
		DataSize:  uint32(len(g.LoadStream())),
		Signature: g.Signature(),
	}
}

func index(pool *asset.TilePool, img *asset.Image, t asset.Tile) (uint16, error) {
	i, ok := pool.Index(t)
	if !ok {
		return 0, fmt.Errorf("%w: image %q", ErrMissingTile, img.Name())
	}
	return i, nil
}

// EncodeImage encodes img against pool, choosing the pinned or tiled form.
func EncodeImage(img *asset.Image, pool *asset.TilePool) (Image, error) {
	frames := img.Frames()
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: image %q", ErrNoFrames, img.Name())
	}
	width, height := frames[0].Width(), frames[0].Height()
	if width > math.MaxUint16 || height > math.MaxUint16 || len(frames) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: image %q is %dx%d with %d frames", ErrTooLarge, img.Name(), width, height, len(frames))
	}

	if img.IsPinned() {
		// Frames are assumed to follow on from the first tile
		start, err := index(pool, img, frames[0].TileAt(0, 0))
		if err != nil {
			return nil, err
		}
		return &PinnedAssetImage{
			Name:   img.Name(),
			Width:  uint16(width),
			Height: uint16(height),
			Frames: uint16(len(frames)),
			Index:  start,
		}, nil
	}

	tiles := make([]uint16, 0, width*height*len(frames))
	for f, grid := range frames {
		if grid.Width() != width || grid.Height() != height {
			return nil, fmt.Errorf("%w: image %q frame %d", ErrFrameSize, img.Name(), f)
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i, err := index(pool, img, grid.TileAt(x, y))
				if err != nil {
					return nil, err
				}
				tiles = append(tiles, i)
			}
		}
	}

	return &AssetImage{
		Name:   img.Name(),
		Width:  uint16(width),
		Height: uint16(height),
		Frames: uint16(len(frames)),
		Tiles:  tiles,
	}, nil
}

// encodeGroup returns the container and image symbols for g in emit
// order. Nothing is returned unless the whole group encodes.
func encodeGroup(g *asset.Group) ([]symbol, error) {
	symbols := []symbol{
		&AssetGroup{Name: g.Name(), Header: EncodeHeader(g), Data: g.LoadStream()},
	}

	for _, img := range g.Images() {
		r, err := EncodeImage(img, g.Pool())
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, r)
	}

	return symbols, nil
}
