package uploadsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core"
)

// b2Service resolves uploaded-file keys to expiring download URLs on a
// private Backblaze B2 bucket.
type b2Service struct {
	client *b2.Client
	bucket *b2.Bucket
	urlTTL time.Duration
}

var _ core.FileStore = (*b2Service)(nil)

func NewB2Service(ctx context.Context, conf *core.Config) (*b2Service, error) {
	client, err := b2.NewClient(ctx, conf.FileUpload.B2AccountID, conf.FileUpload.B2AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, conf.FileUpload.B2Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "opening b2 bucket")
	}
	return &b2Service{client: client, bucket: bucket, urlTTL: conf.FileUpload.URLTTL}, nil
}

func (svc *b2Service) DownloadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", &core.FileStoreError{Key: key, Err: errors.New("empty file key")}
	}

	token, err := svc.bucket.AuthToken(ctx, key, svc.urlTTL)
	if err != nil {
		return "", &core.FileStoreError{Key: key, Err: err}
	}
	return fmt.Sprintf("%s/file/%s/%s?Authorization=%s", svc.bucket.BaseURL(), svc.bucket.Name(), key, token), nil
}
