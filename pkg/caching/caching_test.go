package caching

import (
	"os"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, ok := c.Get("https://example.com"); ok {
		t.Fatal("Get() on empty cache returned a hit")
	}

	want := []byte("<html><body>hi</body></html>")
	if err := c.Set("https://example.com", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get("https://example.com")
	if !ok {
		t.Fatal("Get() after Set() missed")
	}
	if string(got) != string(want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}

	if _, ok := c.Get("https://example.org"); ok {
		t.Error("Get() for a different URL returned a hit")
	}
}

func TestCache_Expired(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Set("https://example.com", []byte("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, ok := c.Get("https://example.com"); ok {
		t.Error("Get() returned an expired entry")
	}
}

func TestCache_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Set("https://example.com", []byte("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("cache dir has %d entries, want 1", len(entries))
	}
}
