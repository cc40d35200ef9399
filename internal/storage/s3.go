package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the part of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store keeps uploads in an S3 compatible bucket under the "uploads/" key
// prefix. Files are still served through the application's public uploads
// path, so references look the same as with DiskStore.
type S3Store struct {
	client S3API
	bucket string
}

func NewS3Store(client S3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) key(name string) string {
	return path.Join("uploads", name)
}

func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = contentTypeByName(name)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", name, err)
	}

	return Reference(name), nil
}

func (s *S3Store) Open(ctx context.Context, reference string) (*Object, error) {
	name, err := NameFromReference(reference)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object %s: %w", name, err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = contentTypeByName(name)
	}

	return &Object{
		Body:        out.Body,
		ContentType: contentType,
		Size:        aws.ToInt64(out.ContentLength),
	}, nil
}

func (s *S3Store) Exists(ctx context.Context, reference string) (bool, error) {
	name, err := NameFromReference(reference)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head object %s: %w", name, err)
	}

	return true, nil
}

func isS3NotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	// HeadObject against some S3 compatible stores only carries the code
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	return false
}
