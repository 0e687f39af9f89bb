package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

const defaultContentType = "application/octet-stream"

func contentTypeOf(h nats.Header) string {
	if h != nil {
		if ct := h.Get("Content-Type"); ct != "" {
			return ct
		}
	}
	return defaultContentType
}

// JetStreamStore keeps clips in a NATS JetStream object store bucket.
type JetStreamStore struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	store  jetstream.ObjectStore
	bucket string
}

func NewJetStreamStore(natsURL, bucket string) (*JetStreamStore, error) {
	conn, err := nats.Connect(natsURL, nats.Name("available"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	return &JetStreamStore{conn: conn, js: js, bucket: bucket}, nil
}

// Init binds the bucket, creating it on first use.
func (s *JetStreamStore) Init(ctx context.Context) error {
	store, err := s.js.ObjectStore(ctx, s.bucket)
	if err == nil {
		s.store = store
		return nil
	}
	store, err = s.js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      s.bucket,
		Description: "recorded topic responses",
	})
	if err != nil {
		return fmt.Errorf("create object store %s: %w", s.bucket, err)
	}
	s.store = store
	log.Info().Str("module", "blob").Str("bucket", s.bucket).Msg("jetstream store ready")
	return nil
}

func (s *JetStreamStore) Put(ctx context.Context, name, contentType string, r io.Reader) (Object, error) {
	if !ValidName(name) {
		return Object{}, ErrInvalidName
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	info, err := s.store.Put(ctx, jetstream.ObjectMeta{
		Name:    name,
		Headers: nats.Header{"Content-Type": []string{contentType}},
	}, r)
	if err != nil {
		return Object{}, fmt.Errorf("store %s: %w", name, err)
	}
	return Object{
		Name:        info.Name,
		Size:        int64(info.Size),
		ContentType: contentType,
		ModTime:     info.ModTime,
	}, nil
}

func (s *JetStreamStore) Open(ctx context.Context, name string) (io.ReadCloser, Object, error) {
	if !ValidName(name) {
		return nil, Object{}, ErrInvalidName
	}
	res, err := s.store.Get(ctx, name)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, Object{}, ErrNotFound
	}
	if err != nil {
		return nil, Object{}, fmt.Errorf("get %s: %w", name, err)
	}
	info, err := res.Info()
	if err != nil {
		_ = res.Close()
		return nil, Object{}, fmt.Errorf("info %s: %w", name, err)
	}
	return res, Object{
		Name:        info.Name,
		Size:        int64(info.Size),
		ContentType: contentTypeOf(info.Headers),
		ModTime:     info.ModTime,
	}, nil
}

func (s *JetStreamStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
