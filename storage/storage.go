package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client interface for the object operations we use (allows mocking in tests)
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores user-supplied files (profile images, certificates,
// signatures, chat images) in object storage under deterministic folder keys.
type Uploader struct {
	client S3Client
	bucket string
	region string
}

// NewUploader creates an Uploader against the configured bucket.
func NewUploader(ctx context.Context, bucket, region string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// NewUploaderWithClient creates an Uploader with an explicit client, used by tests.
func NewUploaderWithClient(client S3Client, bucket, region string) *Uploader {
	return &Uploader{client: client, bucket: bucket, region: region}
}

// Upload stores the object under folderKey/filename and returns its URL.
func (u *Uploader) Upload(ctx context.Context, folderKey, filename string, body io.Reader, contentType string) (string, error) {
	key := path.Join(folderKey, filename)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}

// Deterministic folder keys per upload kind.

func DoctorCertificateKey(doctorID string) string {
	return "doctor/certificates/" + doctorID
}

func DoctorSignatureKey(doctorID string) string {
	return "doctor/signatures/" + doctorID
}

func ProfileImageKey(role, id string) string {
	return path.Join(role, "profiles", id)
}

func ChatImageKey(chatID string) string {
	return "chat/" + chatID
}
