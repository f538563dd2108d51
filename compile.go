package stir

import (
	"fmt"

	"github.com/bodgit/stir/asset"
	"github.com/bodgit/stir/cpp"
	"github.com/bodgit/stir/manifest"
)

// CompileFile loads the manifest in file and compiles it
func (s *Stir) CompileFile(file, header, source string) error {
	m, err := manifest.Load(file)
	if err != nil {
		return err
	}
	return s.Compile(m, header, source)
}

func (s *Stir) sounds(m *manifest.Manifest) ([]*asset.Sound, error) {
	var sounds []*asset.Sound
	for _, snd := range m.Sounds {
		sounds = append(sounds, asset.NewSound(snd.Name))
	}

	for _, c := range m.Cues {
		imported, err := cueSounds(c, m.Path(c.File))
		if err != nil {
			return nil, fmt.Errorf("stir: cue %q: %w", c.Name, err)
		}
		s.logger.Printf("Cue \"%s\": %d audio tracks\n", c.Name, len(imported))
		sounds = append(sounds, imported...)
	}

	return sounds, nil
}

// checkNames catches cue tracks whose generated names collide with
// anything else; the manifest itself has already been checked.
func checkNames(groups []*asset.Group, sounds []*asset.Sound) error {
	names := make(map[string]struct{})
	add := func(name string) error {
		if _, ok := names[name]; ok {
			return fmt.Errorf("stir: symbol %q defined more than once", name)
		}
		names[name] = struct{}{}
		return nil
	}

	for _, g := range groups {
		if err := add(g.Name()); err != nil {
			return err
		}
		if err := add(g.Name() + "ID"); err != nil {
			return err
		}
		for _, img := range g.Images() {
			if err := add(img.Name()); err != nil {
				return err
			}
		}
	}
	for _, snd := range sounds {
		if err := add(snd.Name()); err != nil {
			return err
		}
	}

	return nil
}

// Compile builds every group and sound in m and writes them to the header
// and source files. Either file name may be empty to skip writing it.
// The asset model is fully built before either file is opened.
func (s *Stir) Compile(m *manifest.Manifest, header, source string) (err error) {
	s.warnings = nil

	images, err := s.decodeImages(m.Files())
	if err != nil {
		return err
	}

	groups := make([]*asset.Group, 0, len(m.Groups))
	for _, g := range m.Groups {
		group, err := s.buildGroup(g, m.Path, images)
		if err != nil {
			return err
		}
		groups = append(groups, group)
	}

	sounds, err := s.sounds(m)
	if err != nil {
		return err
	}

	if err := checkNames(groups, sounds); err != nil {
		return err
	}

	w := cpp.NewWriter(header, source, s.ids, s.logger)
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	s.warnings = w.OpenErrors()
	if s.Strict && len(s.warnings) > 0 {
		return s.warnings[0]
	}

	for _, g := range groups {
		if err := w.WriteGroup(g); err != nil {
			return err
		}
	}

	for _, snd := range sounds {
		if err := w.WriteSound(snd); err != nil {
			return err
		}
	}

	s.logger.Printf("Wrote %d groups and %d sounds\n", len(groups), len(sounds))

	return nil
}
