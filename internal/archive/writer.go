// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
)

// MimetypePath is the name of the media-type entry that must lead an
// OCF container (EPUB).
const MimetypePath = "mimetype"

var (
	// ErrClosed is returned by Add after Bytes has finalized the archive.
	ErrClosed = errors.New("archive writer closed")

	// ErrReservedPath is returned when Add is asked to write the mimetype
	// entry, which only NewMimetypeWriter may place.
	ErrReservedPath = errors.New("reserved archive path")
)

// Writer builds a zip archive in memory.
type Writer struct {
	buf    bytes.Buffer
	zw     *zip.Writer
	seen   map[string]bool
	closed bool
}

// NewWriter returns an empty archive builder.
func NewWriter() *Writer {
	w := &Writer{seen: make(map[string]bool)}
	w.zw = zip.NewWriter(&w.buf)
	return w
}

// NewMimetypeWriter returns a builder whose first entry is an uncompressed
// "mimetype" file containing mediaType. The entry has no data descriptor
// and no extra field, so mediaType begins at byte offset 38 of the output.
func NewMimetypeWriter(mediaType string) (*Writer, error) {
	w := NewWriter()
	if err := w.add(Entry{Path: MimetypePath, Content: []byte(mediaType), Method: Store}); err != nil {
		return nil, err
	}
	return w, nil
}

// Add appends an entry. Paths must be unique and may not be "mimetype".
func (w *Writer) Add(e Entry) error {
	if e.Path == MimetypePath {
		return fmt.Errorf("adding %s: %w", e.Path, ErrReservedPath)
	}
	return w.add(e)
}

func (w *Writer) add(e Entry) error {
	if w.closed {
		return ErrClosed
	}
	if e.Path == "" {
		return errors.New("adding entry: empty path")
	}
	if w.seen[e.Path] {
		return fmt.Errorf("adding %s: duplicate entry", e.Path)
	}

	switch e.Method {
	case Store:
		// CreateRaw writes the sizes and CRC into the local header instead
		// of a trailing data descriptor.
		size := uint64(len(e.Content))
		fw, err := w.zw.CreateRaw(&zip.FileHeader{
			Name:               e.Path,
			Method:             zip.Store,
			CRC32:              crc32.ChecksumIEEE(e.Content),
			CompressedSize64:   size,
			UncompressedSize64: size,
		})
		if err != nil {
			return fmt.Errorf("creating %s: %w", e.Path, err)
		}
		if _, err := fw.Write(e.Content); err != nil {
			return fmt.Errorf("writing %s: %w", e.Path, err)
		}
	default:
		fw, err := w.zw.CreateHeader(&zip.FileHeader{Name: e.Path, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("creating %s: %w", e.Path, err)
		}
		if _, err := fw.Write(e.Content); err != nil {
			return fmt.Errorf("writing %s: %w", e.Path, err)
		}
	}

	w.seen[e.Path] = true
	return nil
}

// Bytes finalizes the archive and returns its content. The writer accepts
// no further entries afterwards.
func (w *Writer) Bytes() ([]byte, error) {
	if !w.closed {
		if err := w.zw.Close(); err != nil {
			return nil, fmt.Errorf("closing archive: %w", err)
		}
		w.closed = true
	}
	return w.buf.Bytes(), nil
}
