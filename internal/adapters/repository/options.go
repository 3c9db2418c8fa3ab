package repository

import (
	"os"

	"github.com/klauspost/compress/zstd"
)

const defaultFileMode os.FileMode = 0o644

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permissions of saved project files.
func WithFileMode(perm os.FileMode) Option {
	return func(s *FileStore) {
		if perm != 0 {
			s.perm = perm
		}
	}
}

// WithEncoderLevel sets the zstd level used for ".zst" project files.
func WithEncoderLevel(level zstd.EncoderLevel) Option {
	return func(s *FileStore) {
		if level >= zstd.SpeedFastest && level <= zstd.SpeedBestCompression {
			s.level = level
		}
	}
}
