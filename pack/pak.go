// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Pack is the zip archive embedded in a map. The archive is opened on first
// use. A single reader is shared by all lookups and every lookup holds the
// lock while it touches the archive.
type Pack struct {
	data  []byte
	limit int64

	mu     sync.Mutex
	opened bool
	err    error
	files  map[string]*zip.File
}

// New returns a Pack for the archive in data. Entries larger than limit
// bytes are rejected, limit <= 0 disables the check.
func New(data []byte, limit int64) *Pack {
	return &Pack{data: data, limit: limit}
}

// normalize maps names to the form used as key: lower case with forward
// slashes, as the engine looks files up case insensitively.
func normalize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.ToLower(strings.TrimPrefix(name, "/"))
}

func (p *Pack) init() error {
	if p.opened {
		return p.err
	}
	p.opened = true
	if len(p.data) == 0 {
		p.files = map[string]*zip.File{}
		return nil
	}
	r, err := zip.NewReader(bytes.NewReader(p.data), int64(len(p.data)))
	if err != nil {
		p.err = errors.Wrap(err, "open pack")
		return p.err
	}
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	p.files = make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := normalize(f.Name)
		if p.files[name] != nil {
			p.err = errors.Errorf("files in pack are not unique: %s", name)
			return p.err
		}
		p.files[name] = f
	}
	return nil
}

// Get returns the contents of the named file. A missing file yields an
// error wrapping os.ErrNotExist.
func (p *Pack) Get(name string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.init(); err != nil {
		return nil, err
	}
	f, ok := p.files[normalize(name)]
	if !ok {
		return nil, errors.Wrap(os.ErrNotExist, name)
	}
	if p.limit > 0 && f.UncompressedSize64 > uint64(p.limit) {
		return nil, errors.Errorf("pack file %s has %d bytes, limit is %d", name, f.UncompressedSize64, p.limit)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return b, nil
}

// Has reports whether the archive contains name. It only fails if the
// archive itself is broken.
func (p *Pack) Has(name string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.init(); err != nil {
		return false, err
	}
	_, ok := p.files[normalize(name)]
	return ok, nil
}

// Names returns the normalized names of all files, sorted.
func (p *Pack) Names() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.init(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(p.files))
	for n := range p.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (p *Pack) String() string {
	return fmt.Sprintf("pack (%d bytes)", len(p.data))
}
