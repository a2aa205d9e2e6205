package sitecms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ProgressFunc receives fractional upload progress in the 0–100 range.
type ProgressFunc func(pct float64)

// UploadMeta is attached to stored objects.
type UploadMeta struct {
	OriginalName string
	ContentType  string
}

// BlobStore is the object-storage contract for cover images. Upload
// resolves to a publicly retrievable URL; Delete is idempotent and only
// acts on URLs the store owns.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, meta UploadMeta, progress ProgressFunc) (string, error)
	Delete(ctx context.Context, objectURL string) error
	Owns(objectURL string) bool
}

// StorageKey builds the object key for an upload: folder, millisecond
// timestamp and the sanitized original filename, so concurrent uploads of
// the same file cannot collide and the name cannot escape the folder.
func StorageKey(folder, originalName string) string {
	return fmt.Sprintf("%s/%d_%s", folder, time.Now().UnixMilli(), SanitizeFilename(originalName))
}

// S3BlobStore implements BlobStore over any S3-compatible endpoint.
type S3BlobStore struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewS3BlobStore builds the object-storage client from site configuration.
func NewS3BlobStore(ctx context.Context, cfg SiteConfig) (*S3BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3BlobStore{
		client:     client,
		bucket:     cfg.S3Bucket,
		publicBase: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}, nil
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.fn != nil && p.total > 0 {
		p.fn(float64(p.read) / float64(p.total) * 100)
	}
	return n, err
}

// Upload streams the object and reports progress as the body is consumed.
// The returned URL is publicly retrievable.
func (s *S3BlobStore) Upload(ctx context.Context, key string, data []byte, meta UploadMeta, progress ProgressFunc) (string, error) {
	body := &progressReader{r: bytes.NewReader(data), total: int64(len(data)), fn: progress}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(meta.ContentType),
		Metadata: map[string]string{
			"original-name": meta.OriginalName,
			"uploaded-at":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", classifyUploadError(err)
	}
	if progress != nil {
		progress(100)
	}
	return s.publicBase + "/" + key, nil
}

// Owns reports whether the URL points into this store's bucket.
func (s *S3BlobStore) Owns(objectURL string) bool {
	return s.publicBase != "" && strings.HasPrefix(objectURL, s.publicBase+"/")
}

// Delete removes the object referenced by the URL. URLs outside the bucket
// are ignored; a missing object counts as success.
func (s *S3BlobStore) Delete(ctx context.Context, objectURL string) error {
	if !s.Owns(objectURL) {
		return nil
	}
	key, err := s.keyFromURL(objectURL)
	if err != nil {
		return nil
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return nil
		}
	}
	return err
}

func (s *S3BlobStore) keyFromURL(objectURL string) (string, error) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(s.publicBase)
	if err != nil {
		return "", err
	}
	key := strings.TrimPrefix(u.Path, strings.TrimRight(base.Path, "/")+"/")
	if key == "" || key == u.Path {
		return "", fmt.Errorf("no object key in %s", objectURL)
	}
	return key, nil
}

// classifyUploadError maps transport failures onto the upload taxonomy so
// each class gets its own user-facing message. Unrecognized failures
// collapse to ErrUploadFailed.
func classifyUploadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUploadCanceled, err)
	}
	var maxAttempts *retry.MaxAttemptsError
	if errors.As(err, &maxAttempts) {
		return fmt.Errorf("%w: %v", ErrUploadRetryLimitExceeded, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return fmt.Errorf("%w: %v", ErrUploadUnauthorized, err)
		case "RequestCanceled":
			return fmt.Errorf("%w: %v", ErrUploadCanceled, err)
		case "BadDigest", "InvalidDigest":
			return fmt.Errorf("%w: %v", ErrUploadChecksumInvalid, err)
		}
		if strings.Contains(apiErr.ErrorCode(), "Quota") {
			return fmt.Errorf("%w: %v", ErrUploadQuotaExceeded, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUploadFailed, err)
}
