// Package repository loads and saves acoustic projects.
//
// A project file is XML (".xml") or YAML (".yaml", ".yml"); either may be
// zstd compressed by appending ".zst". Saves go through a temporary file in
// the destination directory followed by a rename, so a failed save never
// leaves a partial project behind.
package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/okian/lden/internal/domain/model"
)

// compressedExt marks a zstd compressed project file.
const compressedExt = ".zst"

// Store provides read/write access to project files.
type Store interface {
	// Load reads the project stored at path.
	Load(ctx context.Context, path string) (*model.Project, error)
	// Save writes p to path, replacing any existing file atomically.
	Save(ctx context.Context, p *model.Project, path string) error
}

// FileStore is the filesystem Store.
type FileStore struct {
	perm  os.FileMode
	level zstd.EncoderLevel
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore with the given options.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{perm: defaultFileMode, level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the project stored at path.
func (s *FileStore) Load(ctx context.Context, path string) (*model.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, compressed, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = bufio.NewReader(f)
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadProject, path, err)
		}
		defer dec.Close()
		r = dec
	}

	doc, err := c.decode(r)
	if err != nil {
		if errors.Is(err, model.ErrBadSpectrum) {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadSpectrum, path, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrBadProject, path, err)
	}
	p, err := doc.project()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path through a temporary file and a rename.
func (s *FileStore) Save(ctx context.Context, p *model.Project, path string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: nil project", ErrSave)
	}
	c, compressed, err := codecFor(path)
	if err != nil {
		return err
	}
	doc, err := documentOf(p)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if compressed {
		enc, encErr := zstd.NewWriter(bw, zstd.WithEncoderLevel(s.level))
		if encErr != nil {
			return fmt.Errorf("%w: %w", ErrSave, encErr)
		}
		if encErr = c.encode(enc, doc); encErr != nil {
			_ = enc.Close()
			return fmt.Errorf("%w: %w", ErrSave, encErr)
		}
		if encErr = enc.Close(); encErr != nil {
			return fmt.Errorf("%w: %w", ErrSave, encErr)
		}
	} else if err = c.encode(bw, doc); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err = os.Chmod(tmp.Name(), s.perm); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// codecFor picks the codec from the file extension, after stripping an
// optional compression suffix.
func codecFor(path string) (codec, bool, error) {
	name := strings.ToLower(path)
	compressed := strings.HasSuffix(name, compressedExt)
	name = strings.TrimSuffix(name, compressedExt)

	c, ok := codecs[filepath.Ext(name)]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	return c, compressed, nil
}
