package persistence

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// AFSStore persists session state as one blob per key under a base URL. Any
// scheme supported by afs works (file://, mem://, s3:// with the matching
// connector), so tests and deployments pick the backing store via the URL
// alone.
type AFSStore struct {
	fs      afs.Service
	baseURL string
}

// NewAFSStore creates a store rooted at baseURL.
func NewAFSStore(baseURL string) *AFSStore {
	return &AFSStore{fs: afs.New(), baseURL: baseURL}
}

func (s *AFSStore) keyURL(key string) string {
	return url.Join(s.baseURL, key+".json")
}

func (s *AFSStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.fs.Upload(ctx, s.keyURL(key), 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: upload %s: %v", ErrWriteFailed, s.keyURL(key), err)
	}
	return nil
}

func (s *AFSStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	location := s.keyURL(key)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		return nil, false, nil
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, false, fmt.Errorf("failed to download %s: %w", location, err)
	}
	return data, true, nil
}

func (s *AFSStore) Delete(ctx context.Context, key string) error {
	location := s.keyURL(key)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		return nil
	}

	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrWriteFailed, location, err)
	}
	return nil
}
