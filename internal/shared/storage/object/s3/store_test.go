package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"jobmatch-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
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

type fakeS3 struct {
	puts    map[string][]byte
	inputs  []*s3.PutObjectInput
	missing bool
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[aws.ToString(params.Key)] = data
	f.inputs = append(f.inputs, params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.missing {
		return nil, &s3types.NoSuchKey{}
	}
	data, ok := f.puts[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("boom")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestPutAppliesPrefixAndEncryption(t *testing.T) {
	fake := &fakeS3{}
	store := newWithClient(fake, "bucket", "/root/", "kms-key")

	n, err := store.Put(context.Background(), "reports/r1.json", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 bytes, got %d", n)
	}
	if _, ok := fake.puts["root/reports/r1.json"]; !ok {
		t.Fatalf("expected prefixed key, got %v", fake.puts)
	}
	in := fake.inputs[0]
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(in.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected kms encryption, got %v", in.ServerSideEncryption)
	}

	rc, err := store.Open(context.Background(), "reports/r1.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "{}" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestOpenMapsNoSuchKey(t *testing.T) {
	store := newWithClient(&fakeS3{missing: true}, "bucket", "", "")
	_, err := store.Open(context.Background(), "reports/missing.json")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
