package sitecms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
)

func TestStorageKey(t *testing.T) {
	key := StorageKey("covers", "foto kemah (1).jpg")
	if !strings.HasPrefix(key, "covers/") {
		t.Errorf("key %q not under covers/", key)
	}
	if !strings.HasSuffix(key, "_foto_kemah__1_.jpg") {
		t.Errorf("key %q does not end with sanitized filename", key)
	}
	if strings.Count(key, "/") != 1 {
		t.Errorf("key %q must contain exactly one path separator", key)
	}
}

func TestOwns(t *testing.T) {
	s := &S3BlobStore{publicBase: "https://cdn.example.org/kwarda"}

	if !s.Owns("https://cdn.example.org/kwarda/covers/1_a.jpg") {
		t.Error("expected store to own object under its public base")
	}
	if s.Owns("https://other.example.org/covers/1_a.jpg") {
		t.Error("store must not own foreign URLs")
	}
	if s.Owns("https://cdn.example.org/kwardax/covers/1_a.jpg") {
		t.Error("prefix match must respect path boundaries")
	}

	empty := &S3BlobStore{}
	if empty.Owns("https://cdn.example.org/kwarda/covers/1_a.jpg") {
		t.Error("store without a public base owns nothing")
	}
}

func TestKeyFromURL(t *testing.T) {
	s := &S3BlobStore{publicBase: "https://cdn.example.org/kwarda"}

	key, err := s.keyFromURL("https://cdn.example.org/kwarda/covers/17_a.jpg")
	if err != nil {
		t.Fatalf("keyFromURL failed: %v", err)
	}
	if key != "covers/17_a.jpg" {
		t.Errorf("key = %q, want covers/17_a.jpg", key)
	}

	if _, err := s.keyFromURL("https://cdn.example.org/kwarda/"); err == nil {
		t.Error("expected error for URL without an object key")
	}
}

func TestClassifyUploadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"canceled context", context.Canceled, ErrUploadCanceled},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrUploadUnauthorized},
		{"expired token", &smithy.GenericAPIError{Code: "ExpiredToken"}, ErrUploadUnauthorized},
		{"request canceled", &smithy.GenericAPIError{Code: "RequestCanceled"}, ErrUploadCanceled},
		{"bad digest", &smithy.GenericAPIError{Code: "BadDigest"}, ErrUploadChecksumInvalid},
		{"quota", &smithy.GenericAPIError{Code: "QuotaExceeded"}, ErrUploadQuotaExceeded},
		{"unknown", errors.New("connection reset"), ErrUploadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyUploadError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyUploadError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	if classifyUploadError(nil) != nil {
		t.Error("nil error must stay nil")
	}
}
