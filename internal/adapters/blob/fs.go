package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FSStore keeps clips as files in a flat directory.
type FSStore struct {
	fs afero.Fs
}

func NewFSStore(fsys afero.Fs) *FSStore {
	return &FSStore{fs: fsys}
}

// NewOSStore roots a store at dir on the local disk, creating it if needed.
func NewOSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	log.Info().Str("module", "blob").Str("dir", dir).Msg("filesystem store ready")
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

func (s *FSStore) Put(_ context.Context, name, contentType string, r io.Reader) (Object, error) {
	if !ValidName(name) {
		return Object{}, ErrInvalidName
	}
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return Object{}, fmt.Errorf("write %s: %w", name, err)
	}
	info, err := s.fs.Stat(name)
	if err != nil {
		return Object{}, fmt.Errorf("stat %s: %w", name, err)
	}
	return Object{Name: name, Size: n, ContentType: contentType, ModTime: info.ModTime()}, nil
}

func (s *FSStore) Open(_ context.Context, name string) (io.ReadCloser, Object, error) {
	if !ValidName(name) {
		return nil, Object{}, ErrInvalidName
	}
	f, err := s.fs.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Object{}, ErrNotFound
	}
	if err != nil {
		return nil, Object{}, fmt.Errorf("open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, Object{}, fmt.Errorf("stat %s: %w", name, err)
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return nil, Object{}, fmt.Errorf("detect %s: %w", name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, Object{}, fmt.Errorf("rewind %s: %w", name, err)
	}
	return f, Object{
		Name:        name,
		Size:        info.Size(),
		ContentType: mt.String(),
		ModTime:     info.ModTime(),
	}, nil
}

func (s *FSStore) Close() error { return nil }
