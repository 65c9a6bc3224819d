package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putInputs    []*s3.PutObjectInput
	deleteInputs []*s3.DeleteObjectInput
	putErr       error
	deleteErr    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putInputs = append(f.putInputs, params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleteInputs = append(f.deleteInputs, params)
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadBuildsPrefixedKeyAndLocator(t *testing.T) {
	client := &fakeS3{}
	store := NewBlobStore(client, "storefront", "product_images/", "")

	locator, err := store.Upload(context.Background(), "rose.jpg", "image/jpeg", []byte("payload"))
	require.NoError(t, err)

	require.Len(t, client.putInputs, 1)
	put := client.putInputs[0]
	assert.Equal(t, "storefront", *put.Bucket)
	assert.True(t, strings.HasPrefix(*put.Key, "product_images/product_img_"))
	assert.True(t, strings.HasSuffix(*put.Key, ".jpg"))
	assert.Equal(t, "image/jpeg", *put.ContentType)
	assert.Equal(t, "https://storefront.s3.amazonaws.com/"+*put.Key, locator)
}

func TestUploadUsesEndpointForPathStyleLocators(t *testing.T) {
	client := &fakeS3{}
	store := NewBlobStore(client, "storefront", "product_images/", "http://localhost:4566/")

	locator, err := store.Upload(context.Background(), "rose.jpg", "image/jpeg", []byte("payload"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(locator, "http://localhost:4566/storefront/product_images/"))
}

func TestUploadErrorPropagates(t *testing.T) {
	client := &fakeS3{putErr: errors.New("access denied")}
	store := NewBlobStore(client, "storefront", "", "")

	_, err := store.Upload(context.Background(), "rose.jpg", "image/jpeg", []byte("payload"))
	assert.Error(t, err)
}

func TestKeyFromURL(t *testing.T) {
	store := NewBlobStore(&fakeS3{}, "storefront", "product_images/", "")

	tests := []struct {
		name    string
		locator string
		want    string
		wantErr bool
	}{
		{
			name:    "virtual-hosted style",
			locator: "https://storefront.s3.amazonaws.com/product_images/product_img_abc.jpg",
			want:    "product_images/product_img_abc.jpg",
		},
		{
			name:    "path style",
			locator: "http://localhost:4566/storefront/product_images/product_img_abc.jpg",
			want:    "product_images/product_img_abc.jpg",
		},
		{
			name:    "no object path",
			locator: "https://storefront.s3.amazonaws.com/",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := store.KeyFromURL(tt.locator)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestDeleteResolvesLocatorToKey(t *testing.T) {
	client := &fakeS3{}
	store := NewBlobStore(client, "storefront", "product_images/", "")

	err := store.Delete(context.Background(), "https://storefront.s3.amazonaws.com/product_images/product_img_abc.jpg")
	require.NoError(t, err)

	require.Len(t, client.deleteInputs, 1)
	assert.Equal(t, "product_images/product_img_abc.jpg", *client.deleteInputs[0].Key)
	assert.Equal(t, "storefront", *client.deleteInputs[0].Bucket)
}
