// Package input provides the sources a feed can be read from: zip archives on
// disk or in memory, directories, and in-memory file maps.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ErrNotFound is returned by Open for names the input does not contain.
var ErrNotFound = errors.New("file not found in feed")

// Input is a set of feed files. Filenames returns base names; Open matches
// them case-insensitively.
type Input interface {
	Name() string
	Filenames() []string
	Open(name string) (io.ReadCloser, error)
	Close() error
}

// Open reads path as a zip archive when it is a regular file, or as a
// directory of files otherwise.
func Open(p string) (Input, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	if info.IsDir() {
		return OpenDir(p)
	}
	return OpenZip(p)
}

// ignored reports whether an entry is archive metadata rather than a feed file.
func ignored(name string) bool {
	base := path.Base(name)
	return strings.HasPrefix(name, "__MACOSX/") ||
		strings.Contains(name, "/__MACOSX/") ||
		strings.HasPrefix(base, "._") ||
		base == ".DS_Store"
}

// index maps lower-cased names to entries and keeps names sorted.
type index[T any] struct {
	names   []string
	entries map[string]T
}

func newIndex[T any]() *index[T] {
	return &index[T]{entries: make(map[string]T)}
}

// add keeps the first entry when two names differ only by case.
func (ix *index[T]) add(name string, v T) {
	key := strings.ToLower(name)
	if _, dup := ix.entries[key]; dup {
		return
	}
	ix.entries[key] = v
	ix.names = append(ix.names, name)
}

func (ix *index[T]) get(name string) (T, bool) {
	v, ok := ix.entries[strings.ToLower(name)]
	return v, ok
}

func (ix *index[T]) sorted() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	sort.Strings(out)
	return out
}

// Zip reads feed files from a zip archive. Files in subdirectories are listed
// by base name.
type Zip struct {
	name   string
	files  *index[*zip.File]
	closer io.Closer
}

// OpenZip opens a zip archive on disk.
func OpenZip(p string) (*Zip, error) {
	rc, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", filepath.Base(p), err)
	}
	z := newZip(filepath.Base(p), &rc.Reader)
	z.closer = rc
	return z, nil
}

// FromZipReader reads an archive of size bytes from r, typically an uploaded
// file.
func FromZipReader(name string, r io.ReaderAt, size int64) (*Zip, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read zip %s: %w", name, err)
	}
	return newZip(name, zr), nil
}

// FromZipBytes is FromZipReader over an in-memory archive.
func FromZipBytes(name string, data []byte) (*Zip, error) {
	return FromZipReader(name, bytes.NewReader(data), int64(len(data)))
}

func newZip(name string, zr *zip.Reader) *Zip {
	z := &Zip{name: name, files: newIndex[*zip.File]()}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || ignored(f.Name) {
			continue
		}
		z.files.add(path.Base(f.Name), f)
	}
	return z
}

func (z *Zip) Name() string { return z.name }
func (z *Zip) Filenames() []string { return z.files.sorted() }

func (z *Zip) Open(name string) (io.ReadCloser, error) {
	f, ok := z.files.get(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return f.Open()
}

func (z *Zip) Close() error {
	if z.closer == nil {
		return nil
	}
	return z.closer.Close()
}

// Dir reads feed files from the top level of a directory.
type Dir struct {
	root  string
	files *index[string]
}

// OpenDir lists the regular files directly inside root.
func OpenDir(root string) (*Dir, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("open dir %s: %w", root, err)
	}
	d := &Dir{root: root, files: newIndex[string]()}
	for _, e := range entries {
		if !e.Type().IsRegular() || ignored(e.Name()) {
			continue
		}
		d.files.add(e.Name(), filepath.Join(root, e.Name()))
	}
	return d, nil
}

func (d *Dir) Name() string { return filepath.Base(d.root) }
func (d *Dir) Filenames() []string { return d.files.sorted() }

func (d *Dir) Open(name string) (io.ReadCloser, error) {
	p, ok := d.files.get(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return os.Open(p)
}

func (d *Dir) Close() error { return nil }

// Map is an in-memory input.
type Map struct {
	name  string
	files *index[string]
}

// FromMap builds an input from file contents keyed by name.
func FromMap(name string, files map[string]string) *Map {
	m := &Map{name: name, files: newIndex[string]()}
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if ignored(n) {
			continue
		}
		m.files.add(n, files[n])
	}
	return m
}

func (m *Map) Name() string { return m.name }
func (m *Map) Filenames() []string { return m.files.sorted() }

func (m *Map) Open(name string) (io.ReadCloser, error) {
	content, ok := m.files.get(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (m *Map) Close() error { return nil }
