// Package blob stores uploaded audio clips. Clips are written once under a
// random name and read back by that name.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkeye/available/internal/config"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
)

const maxExtLen = 10

type Object struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (Object, error)
	// Open returns the object body; the caller closes it.
	Open(ctx context.Context, name string) (io.ReadCloser, Object, error)
	Close() error
}

// NewName returns a random name that keeps the extension of the client's
// file name, so served clips still play in browsers that sniff by suffix.
func NewName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if len(ext) > maxExtLen || !isSafe(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// ValidName reports whether name is a single safe path element.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return false
	}
	return isSafe(name)
}

func isSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// New opens the driver selected in cfg.
func New(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Driver {
	case "", "fs":
		return NewOSStore(cfg.Dir)
	case "nats":
		s, err := NewJetStreamStore(cfg.NATSURL, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		if err := s.Init(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
