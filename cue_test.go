package stir

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/bodgit/stir/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedCue = `FILE "game.bin" BINARY
  TRACK 01 MODE1/2352
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    INDEX 01 10:00:00
  TRACK 03 AUDIO
    INDEX 01 12:00:00
`

func TestCueSounds(t *testing.T) {
	tables := []struct {
		name  string
		sheet string
		names []string
	}{
		{"audio only", testCue, []string{"Music_Track01", "Music_Track02"}},
		{"data track first", mixedCue, []string{"Music_Track02", "Music_Track03"}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "music.cue")
			require.NoError(t, ioutil.WriteFile(file, []byte(table.sheet), 0644))

			sounds, err := cueSounds(manifest.Cue{Name: "Music", File: "music.cue"}, file)
			require.NoError(t, err)

			var names []string
			for _, s := range sounds {
				names = append(names, s.Name())
			}
			assert.Equal(t, table.names, names)
		})
	}
}

func TestCueSoundsNoAudio(t *testing.T) {
	file := filepath.Join(t.TempDir(), "data.cue")
	require.NoError(t, ioutil.WriteFile(file, []byte("FILE \"game.bin\" BINARY\n  TRACK 01 MODE1/2352\n    INDEX 01 00:00:00\n"), 0644))

	_, err := cueSounds(manifest.Cue{Name: "Data", File: "data.cue"}, file)
	assert.Error(t, err)
}
