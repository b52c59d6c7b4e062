package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object describes a stored file
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

//go:generate mockgen -destination=../../mocks/store.go -package=mocks fleet-campus-admin/internal/domain/blob Store

// Store persists uploaded documents
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Key builds a unique object key such as trips/<owner>/1700000000000000000.pdf.
func Key(folder string, owner uuid.UUID, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s/%d%s", folder, owner, now.UnixNano(), ext)
}

// Upload is a file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
