package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/samber/oops"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	"github.com/avolkov/tgarchive/internal/shared/config"
	apperrors "github.com/avolkov/tgarchive/internal/shared/errors"
)

const keyTimeLayout = "2006_01_02T15_04_05"

// s3API is the slice of the S3 client the repository uses.
type s3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage implements Repository against an S3 bucket.
type S3Storage struct {
	client s3API
	bucket string
	region string
	now    func() time.Time
}

// NewS3Storage creates an S3-backed archive repository. Credentials come
// from the default AWS chain (env, shared config, instance role).
func NewS3Storage(ctx context.Context, cfg *config.Config) (Repository, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3.Region))
	if err != nil {
		return nil, oops.With("region", cfg.S3.Region, "context", "loading AWS configuration").Wrap(err)
	}
	return &S3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3.Bucket,
		region: cfg.S3.Region,
		now:    time.Now,
	}, nil
}

func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	// us-east-1 rejects an explicit location constraint.
	if s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	_, err = s.client.CreateBucket(ctx, input)
	if err != nil {
		return oops.With("bucket", s.bucket).Wrap(apperrors.Storage(err))
	}
	slog.Info("created archive bucket", "bucket", s.bucket, "region", s.region)
	return nil
}

func (s *S3Storage) Store(ctx context.Context, archive *domain.Archive) (string, error) {
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return "", oops.With("identifier", archive.Identifier).Wrap(apperrors.Storage(err))
	}

	key := ObjectKey(archive.Identifier, s.now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", oops.With("bucket", s.bucket, "key", key).Wrap(apperrors.Storage(err))
	}

	locator := ObjectURL(s.bucket, s.region, key)
	slog.Info("archive uploaded", "bucket", s.bucket, "key", key, "bytes", len(data))
	return locator, nil
}

// ObjectKey derives the storage key for one identifier's archive. Seconds
// precision keeps consecutive runs on distinct keys; collisions within the
// same instant are accepted.
func ObjectKey(identifier string, at time.Time) string {
	return fmt.Sprintf("telegram_%s_%s.json", identifier, at.UTC().Format(keyTimeLayout))
}

// ObjectURL is the virtual-hosted HTTPS URL of an uploaded archive.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
