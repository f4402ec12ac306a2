package publish

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names within the output directory.
const (
	PageFile = "index.html"
	DataFile = "news-data.json"
)

// PublishError reports a failed write to the output location. It is fatal
// for the run; prior output is left untouched.
type PublishError struct {
	Path string
	Err  error
}

func (e *PublishError) Error() string { return fmt.Sprintf("publish %s: %v", e.Path, e.Err) }
func (e *PublishError) Unwrap() error { return e.Err }

// Publisher writes rendered artifacts to the directory consumed by the
// static host.
type Publisher struct {
	dir string
}

func New(dir string) *Publisher { return &Publisher{dir: dir} }

// Publish replaces the page and data artifacts. Each file is written to a
// temp file in the same directory and renamed into place, so no partial
// write is ever observable.
func (p *Publisher) Publish(page, data []byte) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return &PublishError{Path: p.dir, Err: err}
	}
	if err := writeAtomic(filepath.Join(p.dir, PageFile), page); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(p.dir, DataFile), data)
}

func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &PublishError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PublishError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PublishError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &PublishError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &PublishError{Path: path, Err: err}
	}
	return nil
}
