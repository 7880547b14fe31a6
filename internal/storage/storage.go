package storage

import (
	"context"
	"io"
)

// Uploader persists interview artifacts (voice-turn audio) to an object
// store and returns a stable URL.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
