package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewWithoutCredentials(t *testing.T) {
	tests := []struct {
		name                     string
		endpoint, access, secret string
	}{
		{"no endpoint", "", "a", "b"},
		{"no access key", "http://minio:9000", "", "b"},
		{"no secret key", "http://minio:9000", "a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, "us-east-1", tt.access, tt.secret, "receitas-media", "")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if c != nil {
				t.Error("expected nil client when storage is not configured")
			}
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("http://minio:9000", "us-east-1", "a", "b", "", ""); err == nil {
		t.Error("expected error for empty bucket")
	}
}

func TestFileURL(t *testing.T) {
	c, err := New("http://minio:9000/", "us-east-1", "a", "b", "receitas-media", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := c.FileURL("recipes/covers/x.jpg"), "http://minio:9000/receitas-media/recipes/covers/x.jpg"; got != want {
		t.Errorf("FileURL = %q, want %q", got, want)
	}
	if c.Bucket() != "receitas-media" {
		t.Errorf("Bucket = %q", c.Bucket())
	}

	c, _ = New("http://minio:9000", "us-east-1", "a", "b", "receitas-media", "https://cdn.receitas.local/")
	if got, want := c.FileURL("recipes/covers/x.jpg"), "https://cdn.receitas.local/recipes/covers/x.jpg"; got != want {
		t.Errorf("FileURL with public URL = %q, want %q", got, want)
	}
}

func TestCoverKey(t *testing.T) {
	id := uuid.MustParse("7b0c7a4e-54a5-4a8e-9e43-2d8f0e1b9a11")
	now := time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC)

	key := CoverKey(id, ".jpg", now)
	pattern := regexp.MustCompile(`^recipes/covers/2026/10/19/7b0c7a4e-54a5-4a8e-9e43-2d8f0e1b9a11-[0-9a-f]{8}\.jpg$`)
	if !pattern.MatchString(key) {
		t.Errorf("CoverKey = %q, does not match %s", key, pattern)
	}
	if CoverKey(id, ".jpg", now) == key {
		t.Error("two cover keys for the same recipe should differ")
	}
}
