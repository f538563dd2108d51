package stir

import (
	"fmt"

	"github.com/bodgit/stir/asset"
	"github.com/bodgit/stir/manifest"
	"github.com/vchimishuk/chub/cue"
)

// cueSounds returns a sound for every audio track in the cue sheet, named
// after the cue with the track's number in the sheet appended.
func cueSounds(c manifest.Cue, file string) ([]*asset.Sound, error) {
	sheet, err := cue.ParseFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	var sounds []*asset.Sound
	for _, f := range sheet.Files {
		for _, track := range f.Tracks {
			if track.DataType != cue.DataTypeAudio {
				continue
			}
			sounds = append(sounds, asset.NewSound(fmt.Sprintf("%s_Track%02d", c.Name, track.Number)))
		}
	}

	if len(sounds) == 0 {
		return nil, fmt.Errorf("%s: no audio tracks", file)
	}

	return sounds, nil
}
