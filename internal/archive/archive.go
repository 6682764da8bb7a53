// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive reads and writes zip-structured containers. The reader
// serves EPUB extraction; the writer assembles generated EPUBs and enforces
// the container rule that a stored "mimetype" entry comes first.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/folio/pkg/types"
)

// maxConcurrentReads bounds the goroutines used by ReadFiles.
const maxConcurrentReads = 8

// Method selects how an entry is stored in the archive.
type Method int

const (
	// Deflate compresses the entry.
	Deflate Method = iota
	// Store writes the entry uncompressed.
	Store
)

// Entry is a single file inside an archive.
type Entry struct {
	Path    string
	Content []byte
	Method  Method
}

// Reader gives random access to the regular files of a zip archive held
// in memory.
type Reader struct {
	zr    *zip.Reader
	files map[string]*zip.File
}

// Open parses data as a zip archive. Structural failures are reported as
// types.ErrMalformedArchive.
func Open(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedArchive, err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if _, dup := files[f.Name]; dup {
			continue
		}
		files[f.Name] = f
	}
	return &Reader{zr: zr, files: files}, nil
}

// Paths returns the regular-file entry paths in physical archive order.
// A name stored more than once is listed once, at its first occurrence,
// and resolves to that first entry.
func (r *Reader) Paths() []string {
	paths := make([]string, 0, len(r.files))
	for _, f := range r.zr.File {
		if r.files[f.Name] != f {
			continue
		}
		paths = append(paths, f.Name)
	}
	return paths
}

// ReadFile returns the decompressed content of the entry at path.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	f, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("reading %s: %w", path, fs.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// ReadFiles reads the given entries concurrently. The returned slice is in
// the same order as paths; completion order has no effect. The first
// failure cancels the remaining reads and is returned.
func (r *Reader) ReadFiles(ctx context.Context, paths []string) ([]Entry, error) {
	entries := make([]Entry, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := r.ReadFile(p)
			if err != nil {
				return err
			}
			entries[i] = Entry{Path: p, Content: data, Method: r.method(p)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Reader) method(path string) Method {
	if f, ok := r.files[path]; ok && f.Method == zip.Store {
		return Store
	}
	return Deflate
}
