package s3

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/resume.pdf", want: "user/resume.pdf"},
		{name: "simple prefix", prefix: "resumes", key: "user/resume.pdf", want: "resumes/user/resume.pdf"},
		{name: "prefix trailing slash", prefix: "resumes/", key: "user/resume.pdf", want: "resumes/user/resume.pdf"},
		{name: "prefix and key slashes", prefix: "/resumes/", key: "/user/resume.pdf", want: "resumes/user/resume.pdf"},
		{name: "empty key", prefix: "resumes", key: "", want: "resumes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestEncryptSelectsKMSWhenConfigured(t *testing.T) {
	kms := &Store{kmsKeyID: "key-1"}
	in := &s3.PutObjectInput{}
	kms.encrypt(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || in.SSEKMSKeyId == nil || *in.SSEKMSKeyId != "key-1" {
		t.Fatalf("expected SSE-KMS with key-1, got %v", in.ServerSideEncryption)
	}

	plain := &Store{}
	in = &s3.PutObjectInput{}
	plain.encrypt(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAes256 || in.SSEKMSKeyId != nil {
		t.Fatalf("expected SSE-S3, got %v", in.ServerSideEncryption)
	}
}

func TestCountingReader(t *testing.T) {
	c := &countingReader{r: strings.NewReader("resume body")}
	buf := make([]byte, 4)
	for {
		if _, err := c.Read(buf); err != nil {
			break
		}
	}
	if c.n != int64(len("resume body")) {
		t.Fatalf("expected %d bytes counted, got %d", len("resume body"), c.n)
	}
}
