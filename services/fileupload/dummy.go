package uploadsvc

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core"
)

var errFileNotFound = errors.New("file not found")

// DummyService serves download URLs from an in-memory table; dev and tests.
// Keys that were never added resolve to a FileStoreError, which is also how
// store faults are simulated.
type DummyService struct {
	mu   sync.RWMutex
	urls map[string]string
}

var _ core.FileStore = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{urls: make(map[string]string)}
}

func (svc *DummyService) AddFile(key, url string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.urls[key] = url
}

func (svc *DummyService) DownloadURL(_ context.Context, key string) (string, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if url, ok := svc.urls[key]; ok {
		return url, nil
	}
	return "", &core.FileStoreError{Key: key, Err: errFileNotFound}
}
