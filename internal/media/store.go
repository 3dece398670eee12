package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Errors an ObjectStore returns, classified by stage
var (
	ErrNetwork = errors.New("object store unreachable")
	ErrUpload  = errors.New("object store rejected the upload")
	ErrBadKey  = errors.New("invalid object key")
)

// ObjectStore keeps uploaded binaries and hands back their public URL
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// ObjectKey builds the storage path of an activity image from a fresh ULID.
// The activity id must be a single path segment.
func ObjectKey(activityID, ext string) (string, error) {
	if activityID == "" || activityID == "." ||
		strings.ContainsAny(activityID, "/\\") || strings.Contains(activityID, "..") {
		return "", fmt.Errorf("%w: activity id %q", ErrBadKey, activityID)
	}
	return path.Join("activities", activityID, ulid.Make().String()+"."+ext), nil
}

// DiskStore writes objects under a local media directory served at publicBaseURL
type DiskStore struct {
	dir           string
	publicBaseURL string
}

// NewDiskStore creates a DiskStore
func NewDiskStore(dir, publicBaseURL string) *DiskStore {
	return &DiskStore{dir: dir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *DiskStore) Put(ctx context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if rel, err := filepath.Rel(s.dir, target); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %q escapes the media directory", ErrBadKey, key)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("%w: create directory: %v", ErrUpload, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", ErrUpload, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("%w: write file: %v", ErrUpload, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close file: %v", ErrUpload, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// HTTPStore PUTs objects to a bucket endpoint
type HTTPStore struct {
	uploadURL     string
	publicBaseURL string
	client        *http.Client
}

// NewHTTPStore creates an HTTPStore. publicBaseURL defaults to uploadURL.
func NewHTTPStore(uploadURL, publicBaseURL string, timeout time.Duration) *HTTPStore {
	if publicBaseURL == "" {
		publicBaseURL = uploadURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPStore{
		uploadURL:     strings.TrimRight(uploadURL, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		client:        &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.uploadURL+"/"+key, r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}
	return s.publicBaseURL + "/" + key, nil
}
