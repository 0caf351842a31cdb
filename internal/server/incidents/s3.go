package incidents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/gophtodo/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Reporter stores each incident as a JSON object in an S3-compatible bucket.
type S3Reporter struct {
	client objectPutter
	bucket string
}

// NewS3Reporter builds a client for the configured endpoint using static
// credentials and path-style addressing (MinIO compatible).
func NewS3Reporter(ctx context.Context, c *sc.Config) (*S3Reporter, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Reporter{client: client, bucket: c.S3Bucket}, nil
}

// Key returns the object key for inc: incidents/YYYY/MM/DD/<id>.json.
func Key(inc Incident) string {
	return fmt.Sprintf("incidents/%04d/%02d/%02d/%s.json", inc.At.Year(), inc.At.Month(), inc.At.Day(), inc.ID)
}

func (r *S3Reporter) Report(ctx context.Context, inc Incident) error {
	body, err := json.Marshal(inc)
	if err != nil {
		return err
	}

	key := Key(inc)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put incident %s: %w", key, err)
	}
	return nil
}
