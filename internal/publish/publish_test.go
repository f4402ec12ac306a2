package publish

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPublishWritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	p := New(dir)
	if err := p.Publish([]byte("<html>one</html>"), []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	page, err := os.ReadFile(filepath.Join(dir, PageFile))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if string(page) != "<html>one</html>" {
		t.Errorf("unexpected page content: %q", page)
	}
	if _, err := os.ReadFile(filepath.Join(dir, DataFile)); err != nil {
		t.Fatalf("read data: %v", err)
	}
}

func TestPublishReplacesFully(t *testing.T) {
	dir := t.TempDir()
	p := New(dir)
	if err := p.Publish([]byte("a much longer first document body"), []byte("{}")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Publish([]byte("short"), []byte("{}")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	page, err := os.ReadFile(filepath.Join(dir, PageFile))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if string(page) != "short" {
		t.Errorf("prior content not fully replaced: %q", page)
	}
}

func TestPublishCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	p := New(dir)
	if err := p.Publish([]byte("x"), []byte("{}")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, PageFile)); err != nil {
		t.Fatalf("page not written: %v", err)
	}
}

func TestPublishErrorWhenTargetUnavailable(t *testing.T) {
	// A regular file where the output directory should be.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(blocker)
	err := p.Publish([]byte("x"), []byte("{}"))
	if err == nil {
		t.Fatal("expected error publishing into a file path")
	}
	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PublishError, got %T: %v", err, err)
	}
	// No temp litter next to the blocker.
	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected leftover files: %v", entries)
	}
}
