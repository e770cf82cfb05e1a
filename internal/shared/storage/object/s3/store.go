package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"jobmatch-backend/internal/shared/storage/object"
)

type api interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store implements ObjectStore using Amazon S3.
type Store struct {
	client   api
	bucket   string
	prefix   string
	kmsKeyID string
}

// New creates a new S3-backed object store.
func New(ctx context.Context, region, bucket, prefix, kmsKeyID string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newWithClient(s3.NewFromConfig(cfg), bucket, prefix, kmsKeyID), nil
}

func newWithClient(client api, bucket, prefix, kmsKeyID string) *Store {
	return &Store{
		client:   client,
		bucket:   bucket,
		prefix:   normalizePrefix(prefix),
		kmsKeyID: strings.TrimSpace(kmsKeyID),
	}
}

// Put uploads data to a specific storage key.
func (s *Store) Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	objectKey := applyPrefix(s.prefix, storageKey)
	counter := &countingReader{r: r}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        counter,
		ContentType: aws.String(contentType),
	}
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.kmsKeyID)
	} else {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return 0, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return counter.n, nil
}

// Open downloads a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	objectKey := applyPrefix(s.prefix, storageKey)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return out.Body, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

var _ object.ObjectStore = (*Store)(nil)
