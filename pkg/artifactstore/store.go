// Package artifactstore abstracts where submitted images live. The rest of
// the system only ever sees the durable reference a store hands back; whether
// that is a hosted URL or an inline data URL is this package's choice.
package artifactstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists an uploaded artifact and returns a durable reference to it.
type Store interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// LocalStore writes artifacts to a directory and serves them by URL prefix.
type LocalStore struct {
	Dir     string
	BaseURL string
}

// NewLocalStore creates a LocalStore rooted at dir.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save writes the artifact to disk under a collision-free name.
func (s *LocalStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact dir: %w", err)
	}
	name := fmt.Sprintf("artifact_%d_%s_%s", time.Now().UnixMilli(), uuid.NewString()[:8], filepath.Base(filename))
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("artifact write: %w", err)
	}
	return s.BaseURL + "/" + name, nil
}

// InlineStore encodes the artifact directly into a data URL instead of
// storing it anywhere. Useful when no external storage is configured.
type InlineStore struct{}

// NewInlineStore creates an InlineStore.
func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

// Save returns a base64 data URL carrying the artifact itself.
func (s *InlineStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

var (
	_ Store = (*LocalStore)(nil)
	_ Store = (*InlineStore)(nil)
)
