/*
Package stir is a library for compiling image and sound assets into C++
source for the Sifteo SDK.

A compile reads a manifest, decodes and tiles every image, builds one
deduplicated tile pool per group and writes a header and source file pair
that embeds each group's container.
*/
package stir

import (
	"log"

	"github.com/bodgit/stir/cpp"
)

// Stir compiles assets
type Stir struct {
	ids    cpp.IDAllocator
	logger *log.Logger

	// Strict makes an output file that can't be opened fail the compile
	// rather than just being logged and skipped.
	Strict bool

	warnings []error
}

// New returns a compiler that numbers modules using ids
func New(ids cpp.IDAllocator, logger *log.Logger) *Stir {
	return &Stir{
		ids:    ids,
		logger: logger,
	}
}

// Warnings returns the output files the last compile couldn't open
func (s *Stir) Warnings() []error {
	return s.warnings
}
