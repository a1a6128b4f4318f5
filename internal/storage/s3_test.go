package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPutObject struct {
	mock.Mock
}

func (m *MockPutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Uploader_Upload(t *testing.T) {
	client := &MockPutObject{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "media" &&
			strings.HasPrefix(aws.ToString(in.Key), "uploads/") &&
			strings.HasSuffix(aws.ToString(in.Key), ".png") &&
			aws.ToString(in.ContentType) == "image/png" &&
			aws.ToInt64(in.ContentLength) == 3
	})).Return(&s3.PutObjectOutput{}, nil)

	u := NewS3UploaderWithClient(client, "media", "https://cdn.example.com/")
	url, err := u.Upload(context.Background(), "Beach.PNG", "image/png", 3, strings.NewReader("abc"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	client.AssertExpectations(t)
}

func TestS3Uploader_UploadError(t *testing.T) {
	client := &MockPutObject{}
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	u := NewS3UploaderWithClient(client, "media", "https://cdn.example.com")
	_, err := u.Upload(context.Background(), "a.jpg", "image/jpeg", 1, strings.NewReader("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
