/*
Package manifest reads the YAML file that describes what STIR should
compile.

	groups:
	  - name: GameAssets
	    images:
	      - name: Background
	        file: background.png
	      - name: Ball
	        file: ball.png
	        width: 8
	        height: 8
	        pinned: true
	sounds:
	  - name: Explosion
	cues:
	  - name: Music
	    file: music.cue

Relative file names are resolved against the directory holding the
manifest.
*/
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("manifest: invalid")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Image describes one image and how to cut it into frames. Width and
// Height are the frame size in pixels, zero meaning the whole image.
// Frames is the number of frames, zero meaning as many as fit. Colors
// reduces the image to a palette of that many colors before tiling.
type Image struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Frames int    `yaml:"frames"`
	Pinned bool   `yaml:"pinned"`
	Colors int    `yaml:"colors"`
}

// Group is a set of images sharing one tile pool
type Group struct {
	Name   string  `yaml:"name"`
	Images []Image `yaml:"images"`
}

// Sound is a single named sound
type Sound struct {
	Name string `yaml:"name"`
}

// Cue imports every audio track of a cue sheet as a sound
type Cue struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Manifest is the top level of the file
type Manifest struct {
	Groups []Group `yaml:"groups"`
	Sounds []Sound `yaml:"sounds"`
	Cues   []Cue   `yaml:"cues"`

	// Dir is the directory relative file names are resolved against
	Dir string `yaml:"-"`
}

// Decode reads a manifest from r. Unknown keys are an error.
func Decode(r io.Reader) (*Manifest, error) {
	m := new(Manifest)

	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Load reads and validates the manifest in file
func Load(file string) (*Manifest, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, err
	}

	if m.Dir, err = filepath.Abs(filepath.Dir(file)); err != nil {
		return nil, err
	}

	return m, nil
}

// Path resolves a file named in the manifest
func (m *Manifest) Path(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.Dir, file)
}

// Files returns every image file in the manifest, once each, in order
func (m *Manifest) Files() []string {
	var files []string
	seen := make(map[string]struct{})
	for _, g := range m.Groups {
		for _, img := range g.Images {
			file := m.Path(img.File)
			if _, ok := seen[file]; !ok {
				seen[file] = struct{}{}
				files = append(files, file)
			}
		}
	}
	return files
}

// Validate checks every name is a usable C identifier and that no two
// generated symbols collide.
func (m *Manifest) Validate() error {
	symbols := make(map[string]string)
	add := func(name, what string) error {
		if !identifier.MatchString(name) {
			return fmt.Errorf("%w: %s name %q is not an identifier", ErrInvalid, what, name)
		}
		if prev, ok := symbols[name]; ok {
			return fmt.Errorf("%w: %s name %q already used by %s", ErrInvalid, what, name, prev)
		}
		symbols[name] = what
		return nil
	}

	for _, g := range m.Groups {
		if err := add(g.Name, "group"); err != nil {
			return err
		}
		if err := add(g.Name+"ID", "group"); err != nil {
			return err
		}
		for _, img := range g.Images {
			if err := add(img.Name, "image"); err != nil {
				return err
			}
			if img.File == "" {
				return fmt.Errorf("%w: image %q has no file", ErrInvalid, img.Name)
			}
			if img.Width < 0 || img.Height < 0 || img.Frames < 0 || img.Colors < 0 {
				return fmt.Errorf("%w: image %q has a negative size", ErrInvalid, img.Name)
			}
		}
	}

	for _, s := range m.Sounds {
		if err := add(s.Name, "sound"); err != nil {
			return err
		}
	}

	for _, c := range m.Cues {
		if !identifier.MatchString(c.Name) {
			return fmt.Errorf("%w: cue name %q is not an identifier", ErrInvalid, c.Name)
		}
		if c.File == "" {
			return fmt.Errorf("%w: cue %q has no file", ErrInvalid, c.Name)
		}
	}

	return nil
}
