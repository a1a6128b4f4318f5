// Package storage uploads images to S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const MaxUploadSize = 10 << 20

// PutObjectAPI is the part of *s3.Client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	client  PutObjectAPI
	bucket  string
	baseURL string
}

func NewS3Uploader(ctx context.Context, cfg config.S3Config) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return NewS3UploaderWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, baseURL), nil
}

func NewS3UploaderWithClient(client PutObjectAPI, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload stores body under uploads/<uuid><ext> and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	key := "uploads/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}
