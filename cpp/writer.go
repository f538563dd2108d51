/*
Package cpp writes compiled asset groups as a pair of C++ files for the
Sifteo SDK: a header of extern declarations and a source file holding the
definitions, including each group's container of header plus Load Stream.

The two files are always written together. Every public symbol is encoded
once and then handed to both files back to back, so the header and source
can't drift apart.
*/
package cpp

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/stir/asset"
)

// ErrSinkOpen is wrapped by the errors returned from OpenErrors
var ErrSinkOpen = errors.New("cpp: error opening output file")

const preamble = "/*\n" +
	" * Generated by STIR. Do not edit by hand.\n" +
	" */\n" +
	"\n" +
	"#include <sifteo/asset.h>\n"

// sink is one output file. A sink that failed to open, or hit a write
// error, silently discards everything written to it from then on.
type sink struct {
	f     *os.File
	w     *bufio.Writer
	guard string
	err   error
}

func openSink(filename string, header bool, logger *log.Logger) (*sink, error) {
	s := new(sink)
	if filename == "" {
		return s, nil
	}

	f, err := os.Create(filename)
	if err != nil {
		logger.Printf("Error opening output file '%s': %v\n", filename, err)
		return s, fmt.Errorf("%w '%s': %v", ErrSinkOpen, filename, err)
	}
	s.f, s.w = f, bufio.NewWriter(f)

	if header {
		s.guard = GuardName(filepath.Base(filename))
	}
	s.head()

	return s, nil
}

func (s *sink) open() bool {
	return s.w != nil
}

func (s *sink) Write(p []byte) (int, error) {
	if !s.open() || s.err != nil {
		return len(p), nil
	}
	if _, err := s.w.Write(p); err != nil {
		s.err = err
	}
	return len(p), nil
}

func (s *sink) printf(format string, a ...interface{}) {
	fmt.Fprintf(s, format, a...)
}

func (s *sink) writeArray(b []byte) {
	if s.open() {
		// Write errors are kept in s.err
		_ = WriteArray(s, b)
	}
}

func (s *sink) head() {
	s.printf("%s", preamble)
	if s.guard != "" {
		s.printf("\n#ifndef %s\n#define %s\n\n", s.guard, s.guard)
	}
}

func (s *sink) foot() {
	if s.guard != "" {
		s.printf("\n#endif  // %s\n", s.guard)
	}
}

func (s *sink) close() error {
	if !s.open() {
		return nil
	}
	s.foot()

	err := s.err
	if ferr := s.w.Flush(); err == nil {
		err = ferr
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f, s.w = nil, nil

	return err
}

// Writer emits groups and sounds to a header and a source file.
type Writer struct {
	header, source *sink
	ids            IDAllocator
	logger         *log.Logger
	openErrs       []error
}

// NewWriter opens the header and source files. Either filename may be
// empty to skip that file. A file that can't be opened is logged and left
// out, the other file is still written; OpenErrors reports what failed.
// The caller must always call Close.
func NewWriter(header, source string, ids IDAllocator, logger *log.Logger) *Writer {
	w := &Writer{
		ids:    ids,
		logger: logger,
	}

	var err error
	if w.header, err = openSink(header, true, logger); err != nil {
		w.openErrs = append(w.openErrs, err)
	}
	if w.source, err = openSink(source, false, logger); err != nil {
		w.openErrs = append(w.openErrs, err)
	}

	return w
}

// OpenErrors returns an error for each output file that couldn't be
// opened.
func (w *Writer) OpenErrors() []error {
	return w.openErrs
}

func (w *Writer) emit(s symbol) {
	w.header.printf("%s\n", s.declaration())
	s.define(w.source)
}

// WriteGroup writes the id, container and images of g. The group is fully
// encoded before an id is allocated or anything is written, so a bad image
// leaves no partial output behind and no id handed out.
func (w *Writer) WriteGroup(g *asset.Group) error {
	symbols, err := encodeGroup(g)
	if err != nil {
		return fmt.Errorf("cpp: group %q: %w", g.Name(), err)
	}

	id, err := w.ids.GroupID(g)
	if err != nil {
		return err
	}

	w.emit(&AssetGroupID{Group: g.Name(), ID: id})
	for _, s := range symbols {
		w.emit(s)
	}

	return nil
}

// WriteSound writes the module record for s
func (w *Writer) WriteSound(s *asset.Sound) error {
	id, err := w.ids.SoundID(s)
	if err != nil {
		return err
	}

	w.emit(&AudioModuleID{
		Name: s.Name(),
		ID:   id,
		Kind: Sample,
	})

	return nil
}

// Close finishes both files, closing the header's include guard. It
// returns the first write error from either file.
func (w *Writer) Close() error {
	err := w.header.close()
	if serr := w.source.close(); err == nil {
		err = serr
	}
	return err
}
