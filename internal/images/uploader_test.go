package images

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	if input.ContentType != nil {
		m.types[*input.Key] = *input.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, &s3NotFound{}
	}
	ct := m.types[*input.Key]
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader(string(data))),
		ContentType: &ct,
	}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type s3NotFound struct{}

func (e *s3NotFound) Error() string { return "NoSuchKey" }

func testUploader(mock *mockS3Client) *Uploader {
	u := NewUploader(Config{
		Bucket:        "hearth-images",
		AccessKey:     "key",
		SecretKey:     "secret",
		PublicBaseURL: "https://img.example.com",
	})
	u.client = mock
	return u
}

func TestUploaderDisabledWithoutConfig(t *testing.T) {
	u := NewUploader(Config{})
	if u.Enabled() {
		t.Error("uploader without credentials should be disabled")
	}
	_, _, err := u.UploadRecipeImage(context.Background(), 1, "image/jpeg", strings.NewReader("x"), 1)
	if err == nil {
		t.Fatal("expected error when storage is not configured")
	}
}

func TestUploadRecipeImage(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock)

	body := "not really a jpeg"
	key, url, err := u.UploadRecipeImage(context.Background(), 42, "image/jpeg", strings.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("UploadRecipeImage: %v", err)
	}
	if !strings.HasPrefix(key, "recipes/42/") || !strings.HasSuffix(key, ".jpg") {
		t.Errorf("got key %q, want recipes/42/<ts>.jpg", key)
	}
	if url != "https://img.example.com/"+key {
		t.Errorf("got url %q", url)
	}
	if string(mock.objects[key]) != body {
		t.Error("stored object does not match uploaded body")
	}
	if mock.types[key] != "image/jpeg" {
		t.Errorf("got content type %q", mock.types[key])
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	u := testUploader(newMockS3())

	_, _, err := u.UploadRecipeImage(context.Background(), 1, "application/pdf", strings.NewReader("x"), 1)
	if err == nil {
		t.Fatal("expected error for unsupported content type")
	}
}

func TestFetchAndDelete(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock)

	body := "webp bytes"
	key, _, err := u.UploadRecipeImage(context.Background(), 7, "image/webp", strings.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("UploadRecipeImage: %v", err)
	}

	rc, ct, err := u.Fetch(context.Background(), key)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != body {
		t.Errorf("got %q, want %q", got, body)
	}
	if ct != "image/webp" {
		t.Errorf("got content type %q", ct)
	}

	if err := u.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := u.Fetch(context.Background(), key); err == nil {
		t.Error("expected error fetching deleted object")
	}
}
