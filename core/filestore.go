package core

import (
	"context"
	"fmt"
)

// FileStore resolves keys of learner-uploaded files to short-lived download
// URLs. Lookups are best-effort for display purposes; callers are expected to
// degrade gracefully when a file cannot be resolved.
type FileStore interface {
	// DownloadURL returns a URL granting temporary read access to the file
	// stored under key.
	DownloadURL(ctx context.Context, key string) (string, error)
}

// FileStoreError reports a failed file lookup without exposing backend detail.
type FileStoreError struct {
	Key string
	Err error
}

func (e *FileStoreError) Error() string {
	return fmt.Sprintf("filestore: resolving %q: %v", e.Key, e.Err)
}
