package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	lastKey         string
	lastContentType string
	err             error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastKey = *params.Key
	f.lastContentType = *params.ContentType
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	u := NewUploaderWithClient(fake, "teleclinic-files", "us-east-1")

	url, err := u.Upload(context.Background(), DoctorCertificateKey("D1"), "license.pdf",
		strings.NewReader("%PDF-"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "doctor/certificates/D1/license.pdf", fake.lastKey)
	assert.Equal(t, "application/pdf", fake.lastContentType)
	assert.Equal(t, "https://teleclinic-files.s3.us-east-1.amazonaws.com/doctor/certificates/D1/license.pdf", url)
}

func TestFolderKeys(t *testing.T) {
	assert.Equal(t, "doctor/certificates/D1", DoctorCertificateKey("D1"))
	assert.Equal(t, "doctor/signatures/D1", DoctorSignatureKey("D1"))
	assert.Equal(t, "patient/profiles/P1", ProfileImageKey("patient", "P1"))
	assert.Equal(t, "chat/appointment:APT-X", ChatImageKey("appointment:APT-X"))
}
