package media

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	putErr      error
	objects     map[string][]byte
	contentType map[string]string
	deleted     []string
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
	}
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = body
	f.contentType[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	u := newS3Uploader(api, "vidhub", "avatars", "https://cdn.example.com")

	staged := stageFile(t, "me.png", pngHeader)
	asset, err := u.Upload(ctx, staged)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.Key, "avatars/"))
	assert.Equal(t, "https://cdn.example.com/"+asset.Key, asset.URL)
	assert.Equal(t, pngHeader, api.objects[asset.Key])
	assert.Equal(t, "image/png", api.contentType[asset.Key])

	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}

func TestS3Uploader_UploadError(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	api.putErr = errors.New("access denied")
	u := newS3Uploader(api, "vidhub", "", "https://cdn.example.com")

	staged := stageFile(t, "me.png", pngHeader)
	asset, err := u.Upload(ctx, staged)
	assert.Error(t, err)
	assert.Nil(t, asset)

	_, statErr := os.Stat(staged)
	assert.True(t, os.IsNotExist(statErr), "staged file must be removed on failure too")
}

func TestS3Uploader_Delete(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	u := newS3Uploader(api, "vidhub", "", "https://cdn.example.com")

	require.NoError(t, u.Delete(ctx, "a.png"))
	require.NoError(t, u.Delete(ctx, ""))
	assert.Equal(t, []string{"a.png"}, api.deleted)
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
