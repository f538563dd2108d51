package cpp

import "github.com/bodgit/stir/asset"

const (
	// FixedGroupID is the module id given to every group by FixedIDs
	FixedGroupID = 1

	// FixedSoundID is the module id given to every sound by FixedIDs
	FixedSoundID = 2
)

// IDAllocator hands out the module ids written into AssetGroupID and
// _SYSAudioModuleID records.
type IDAllocator interface {
	GroupID(*asset.Group) (uint32, error)
	SoundID(*asset.Sound) (uint32, error)
}

// FixedIDs gives every group and every sound the same id, which is what
// existing firmware images were built against.
type FixedIDs struct{}

// GroupID always returns FixedGroupID
func (FixedIDs) GroupID(*asset.Group) (uint32, error) { return FixedGroupID, nil }

// SoundID always returns FixedSoundID
func (FixedIDs) SoundID(*asset.Sound) (uint32, error) { return FixedSoundID, nil }

// SequentialIDs numbers groups and sounds from 1 in the order they are
// written. The zero value is ready to use.
type SequentialIDs struct {
	last uint32
}

func (s *SequentialIDs) next() uint32 {
	s.last++
	return s.last
}

// GroupID returns the next id
func (s *SequentialIDs) GroupID(*asset.Group) (uint32, error) { return s.next(), nil }

// SoundID returns the next id
func (s *SequentialIDs) SoundID(*asset.Sound) (uint32, error) { return s.next(), nil }
