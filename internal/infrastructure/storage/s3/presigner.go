// Package s3 issues pre-signed upload URLs for note attachments.
package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// Overridable in tests.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) *s3.PresignClient { return s3.NewPresignClient(c) }
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. a MinIO address; enables path-style URLs
	AccessKey string
	SecretKey string
}

// Presigner implements ports.ObjectPresigner for one bucket.
type Presigner struct {
	bucket string
	client *s3.PresignClient
}

// NewPresigner builds the S3 presign client. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewPresigner(ctx context.Context, cfg Config) (*Presigner, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Presigner{bucket: cfg.Bucket, client: newS3PresignClient(client)}, nil
}

// PresignPut returns a URL that accepts one PUT of key with the given
// content type until ttl elapses.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl), withSignedContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("s3: presign put: %w", err)
	}
	return req.URL, nil
}

// The S3 presign stack strips Content-Type before signing, which would let
// the holder of the URL upload any media type. Restoring the header in the
// finalize step puts it into X-Amz-SignedHeaders, so S3 rejects a PUT whose
// Content-Type differs.
func withSignedContentType(contentType string) func(*s3.PresignOptions) {
	return func(po *s3.PresignOptions) {
		po.ClientOptions = append(po.ClientOptions, func(o *s3.Options) {
			o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
				return stack.Finalize.Add(signedContentType(contentType), middleware.Before)
			})
		})
	}
}

type signedContentType string

func (signedContentType) ID() string { return "SignedContentType" }

func (ct signedContentType) HandleFinalize(ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler) (
	middleware.FinalizeOutput, middleware.Metadata, error,
) {
	if req, ok := in.Request.(*smithyhttp.Request); ok {
		req.Header.Set("Content-Type", string(ct))
	}
	return next.HandleFinalize(ctx, in)
}
