package ports

import (
	"context"
	"time"
)

// PresignInput describes the image a client wants to upload.
type PresignInput struct {
	UserID      string
	Filename    string
	ContentType string
}

// PresignResult is a pre-signed PUT URL for a generated object key.
type PresignResult struct {
	UploadURL string
	ObjectKey string
	ExpiresIn time.Duration
}

// ObjectPresigner mints pre-signed PUT URLs in object storage.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

// UploadService validates upload requests and returns pre-signed URLs.
type UploadService interface {
	Presign(ctx context.Context, in PresignInput) (*PresignResult, error)
}
