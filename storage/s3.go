package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the subset of the S3 client used by the blob store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// BlobStore uploads product images to S3 and deletes them by locator URL.
type BlobStore struct {
	client   S3API
	bucket   string
	prefix   string
	endpoint string
}

// NewBlobStore creates a blob store writing under bucket/prefix. endpoint,
// when non-empty, is a path-style base URL (LocalStack or a custom domain)
// used to build public locators.
func NewBlobStore(client S3API, bucket, prefix, endpoint string) *BlobStore {
	return &BlobStore{client: client, bucket: bucket, prefix: prefix, endpoint: endpoint}
}

// Upload stores data and returns the public locator URL for the new object.
func (b *BlobStore) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%sproduct_img_%s%s", b.prefix, uuid.New().String(), ext)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return b.publicURL(key), nil
}

// Delete removes the object a locator points at. The locator must be one of
// the URL forms this store produces.
func (b *BlobStore) Delete(ctx context.Context, locator string) error {
	key, err := b.KeyFromURL(locator)
	if err != nil {
		return err
	}
	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// KeyFromURL inverts a public locator back to the S3 object key. Both the
// virtual-hosted form (https://<bucket>.s3.amazonaws.com/<key>) and the
// path-style form (<endpoint>/<bucket>/<key>) are recognized.
func (b *BlobStore) KeyFromURL(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse locator %q: %w", locator, err)
	}
	path := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(u.Host, b.bucket+".") {
		// virtual-hosted style: path is the key
	} else if strings.HasPrefix(path, b.bucket+"/") {
		path = strings.TrimPrefix(path, b.bucket+"/")
	}
	if path == "" {
		return "", fmt.Errorf("locator %q has no object path", locator)
	}
	return path, nil
}

func (b *BlobStore) publicURL(key string) string {
	if b.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(b.endpoint, "/"), b.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", b.bucket, key)
}
