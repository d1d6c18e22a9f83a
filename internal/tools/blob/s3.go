package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const contentTypeJSON = "application/json"

// S3 is a Store backed by an S3 bucket.
type S3 struct {
	client s3iface.S3API
}

func NewS3(client s3iface.S3API) *S3 {
	return &S3{client: client}
}

func (s *S3) Get(ctx context.Context, loc Location) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == s3.ErrCodeNoSuchBucket) {
			return nil, fmt.Errorf("%w: s3://%s: %s", ErrNotFound, loc, aerr.Message())
		}
		return nil, fmt.Errorf("getting s3://%s: %w", loc, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s: %w", loc, err)
	}
	return body, nil
}

func (s *S3) Put(ctx context.Context, loc Location, body []byte) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(loc.Bucket),
		Key:         aws.String(loc.Key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeJSON),
	})
	if err != nil {
		return fmt.Errorf("putting s3://%s: %w", loc, err)
	}
	return nil
}
