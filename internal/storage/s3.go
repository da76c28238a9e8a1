package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
)

// s3API is the slice of the S3 client the store uses. Narrowed for test doubles.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements [Store] as one JSON object per playlist in a bucket.
// PutObject replaces the object in a single call, which keeps saves atomic
// from the caller's perspective.
type S3Store struct {
	client s3API
	bucket string
}

// NewS3Store builds the AWS client from the configured region and optional
// static credentials; with no static keys the SDK's default chain applies.
func NewS3Store(ctx context.Context, cfg shared.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS config: %v", shared.ErrInvalidConfig, err)
	}

	return &S3Store{client: s3.NewFromConfig(awsCfg), bucket: cfg.Bucket}, nil
}

// NewS3StoreWithClient wires a prebuilt client, used by tests.
func NewS3StoreWithClient(client s3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) Name() string {
	return shared.BackendS3
}

// objectKey derives the bucket object key from the logical key.
func (s *S3Store) objectKey(key string) string {
	return key + ".json"
}

func (s *S3Store) Load(ctx context.Context, key string) (*models.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return nil, classifyS3Error(err, s.bucket, s.objectKey(key))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read object body: %v", shared.ErrStoreIO, err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: failed to decode snapshot s3://%s/%s: %v", shared.ErrStoreIO, s.bucket, s.objectKey(key), err)
	}

	return &snapshot, nil
}

func (s *S3Store) Save(ctx context.Context, key string, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: failed to encode snapshot: %v", shared.ErrStoreIO, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return classifyS3Error(err, s.bucket, s.objectKey(key))
	}

	return nil
}

// classifyS3Error maps SDK errors onto the store error taxonomy.
func classifyS3Error(err error, bucket, key string) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: s3://%s/%s", shared.ErrSnapshotNotFound, bucket, key)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: s3://%s/%s", shared.ErrSnapshotNotFound, bucket, key)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: s3://%s/%s: %v", shared.ErrStorePermission, bucket, key, err)
		}
	}

	return fmt.Errorf("%w: s3://%s/%s: %v", shared.ErrStoreIO, bucket, key, err)
}
