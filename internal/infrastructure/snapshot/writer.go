// Package snapshot persists aggregated season output as a JSON document on disk.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/borderville/season-stats/internal/domain/season"
	"github.com/borderville/season-stats/internal/platform/logging"
)

// Writer serializes snapshots and replaces the output file atomically, so a
// reader never observes a partially written document.
type Writer struct {
	path   string
	logger *logging.Logger
}

func NewWriter(path string, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.Default()
	}

	return &Writer{path: path, logger: logger}
}

func (w *Writer) Path() string {
	return w.path
}

// Write marshals the snapshot and renames a temp file over the target path.
// The temp file lives in the target directory so the rename stays on one
// filesystem.
func (w *Writer) Write(ctx context.Context, snap *season.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}

	data, err := sonic.ConfigStd.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(data)
	_ = buf.WriteByte('\n')

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, w.path, err)
	}

	w.logger.InfoContext(ctx, "snapshot written",
		"path", w.path,
		"bytes", buf.Len(),
		"players", len(snap.Players),
	)

	return nil
}
