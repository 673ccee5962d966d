package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPStore implements BlobStore over plain HTTP(S) GET requests.
//
// Names that are absolute URLs are requested as-is. Other names are resolved
// against the configured base URL. Any response status other than 200 is
// reported as a *StatusError.
type HTTPStore struct {
	client *http.Client
	base   *url.URL
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient sets the client used for requests.
// Timeouts belong on the client; the store adds none.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPStore creates an HTTPStore. baseURL may be empty when every name
// passed to Open is an absolute URL.
func NewHTTPStore(baseURL string, optFns ...HTTPOption) (*HTTPStore, error) {
	s := &HTTPStore{client: http.DefaultClient}

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("blobstore: invalid base url: %w", err)
		}
		s.base = u
	}

	for _, fn := range optFns {
		fn(s)
	}
	return s, nil
}

func (s *HTTPStore) resolve(name string) (string, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || s.base == nil {
		return ref.String(), nil
	}
	return s.base.ResolveReference(ref).String(), nil
}

// Download performs a single GET and returns the full body.
func (s *HTTPStore) Download(ctx context.Context, name string) ([]byte, error) {
	target, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Name:       name,
		}
	}

	return io.ReadAll(resp.Body)
}

// Open downloads the blob and returns an in-memory handle.
func (s *HTTPStore) Open(ctx context.Context, name string) (Blob, error) {
	data, err := s.Download(ctx, name)
	if err != nil {
		return nil, err
	}
	return &memoryBlob{data: data}, nil
}
