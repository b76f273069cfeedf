package images

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds S3-compatible storage configuration. PublicBaseURL is what
// clients see; with a MinIO or R2 endpoint it differs from Endpoint.
type Config struct {
	Endpoint      string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Uploader stores recipe images in an S3-compatible bucket. A zero-config
// uploader is disabled and rejects uploads, so the rest of the app can treat
// image storage as optional.
type Uploader struct {
	cfg    Config
	client s3Client
}

func NewUploader(cfg Config) *Uploader {
	u := &Uploader{cfg: cfg}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		u.client = newS3Client(cfg)
	}
	return u
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether storage credentials are configured.
func (u *Uploader) Enabled() bool {
	return u.client != nil
}

var extByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UploadRecipeImage stores the image under recipes/{id}/ and returns the key
// and the public URL. Unsupported content types are rejected before any
// bytes move.
func (u *Uploader) UploadRecipeImage(ctx context.Context, recipeID int64, contentType string, body io.Reader, size int64) (key, url string, err error) {
	if u.client == nil {
		return "", "", fmt.Errorf("image storage not configured")
	}

	ext, ok := extByContentType[contentType]
	if !ok {
		return "", "", fmt.Errorf("unsupported image type %q", contentType)
	}

	key = fmt.Sprintf("recipes/%d/%d.%s", recipeID, time.Now().UTC().Unix(), ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload to s3: %w", err)
	}

	return key, u.PublicURL(key), nil
}

// Fetch streams a stored image back, for serving through the app when the
// bucket is not publicly readable.
func (u *Uploader) Fetch(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if u.client == nil {
		return nil, "", fmt.Errorf("image storage not configured")
	}

	result, err := u.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("download from s3: %w", err)
	}

	contentType := ""
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	return result.Body, contentType, nil
}

// Delete removes a stored image. Missing objects are not an error.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	if u.client == nil {
		return nil
	}

	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from s3: %w", err)
	}
	return nil
}

// PublicURL maps a storage key to the URL clients load it from.
func (u *Uploader) PublicURL(key string) string {
	base := strings.TrimSuffix(u.cfg.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimSuffix(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket
	}
	return base + "/" + key
}
