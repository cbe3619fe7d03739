package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

type fakeCloudFront struct {
	in *cloudfront.CreateInvalidationInput
}

func (f *fakeCloudFront) CreateInvalidation(_ context.Context, in *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	f.in = in
	return &cloudfront.CreateInvalidationOutput{}, nil
}

func TestFileUploader(t *testing.T) {
	dir := t.TempDir()
	u := &FileUploader{Dir: dir}

	require.NoError(t, u.Upload(context.Background(), UploadParams{Name: "out.png", Data: []byte("png")}))

	data, err := os.ReadFile(filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestS3Uploader(t *testing.T) {
	client := &fakeS3{}
	u := &S3Uploader{Client: client, Bucket: "site"}

	err := u.Upload(context.Background(), UploadParams{
		Name:         "index.html",
		Data:         []byte("<html>"),
		ContentType:  "text/html",
		CacheControl: "no-cache",
	})
	require.NoError(t, err)
	assert.Equal(t, "site", aws.ToString(client.in.Bucket))
	assert.Equal(t, "index.html", aws.ToString(client.in.Key))
	assert.Equal(t, "text/html", aws.ToString(client.in.ContentType))
	assert.Equal(t, "no-cache", aws.ToString(client.in.CacheControl))
	assert.Equal(t, "<html>", string(client.body))
}

func TestS3UploaderOmitsEmptyCacheControl(t *testing.T) {
	client := &fakeS3{}
	u := &S3Uploader{Client: client, Bucket: "site"}

	require.NoError(t, u.Upload(context.Background(), UploadParams{Name: "a", ContentType: "text/plain"}))
	assert.Nil(t, client.in.CacheControl)
}

func TestCloudFrontInvalidator(t *testing.T) {
	client := &fakeCloudFront{}
	i := &CloudFrontInvalidator{
		Client:       client,
		Distribution: "E123",
		now:          func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) },
	}

	require.NoError(t, i.Invalidate(context.Background(), []string{"/", "/index.html"}))
	assert.Equal(t, "E123", aws.ToString(client.in.DistributionId))
	assert.Equal(t, "20261014093000", aws.ToString(client.in.InvalidationBatch.CallerReference))
	assert.Equal(t, int32(2), aws.ToInt32(client.in.InvalidationBatch.Paths.Quantity))
	assert.Equal(t, []string{"/", "/index.html"}, client.in.InvalidationBatch.Paths.Items)
}

func TestCloudFrontInvalidatorWithoutDistribution(t *testing.T) {
	client := &fakeCloudFront{}
	i := &CloudFrontInvalidator{Client: client}

	require.NoError(t, i.Invalidate(context.Background(), []string{"/"}))
	assert.Nil(t, client.in)
}
