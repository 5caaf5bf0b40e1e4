// ABOUTME: Local downloads-directory store for fetched puzzle files.
// ABOUTME: Atomic writes, duplicate checks, and retention cleanup over guardian-*.pdf files.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2389-research/gridsync/internal/catalog"
	"github.com/2389-research/gridsync/internal/pdf"
)

// LocalStore manages puzzle files in a single downloads directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the downloads directory if needed and returns a store over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create downloads directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the downloads directory path.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Path returns the absolute path of a puzzle file within the store.
func (s *LocalStore) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Exists reports whether a same-named puzzle file is already on disk.
func (s *LocalStore) Exists(ctx context.Context, filename string) (bool, error) {
	info, err := os.Stat(s.Path(filename))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	return !info.IsDir(), nil
}

// Read returns the bytes of a stored puzzle file.
func (s *LocalStore) Read(filename string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

// Write persists a puzzle file atomically: bytes go to a temp file in the same
// directory, then a rename, so no partial file is ever visible.
func (s *LocalStore) Write(filename string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := os.Rename(tmpName, s.Path(filename)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// ListAll enumerates the guardian-*.pdf files in the downloads directory,
// sorted by name. Anything else in the directory is left alone.
func (s *LocalStore) ListAll(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads directory: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "guardian-") || !strings.HasSuffix(name, ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// Cleanup removes files per the retention policy, oldest first. Individual
// deletion failures are logged and skipped. With dryRun the eviction set is
// returned without deleting anything.
func (s *LocalStore) Cleanup(ctx context.Context, policy RetentionPolicy, dryRun bool) ([]string, error) {
	files, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	doomed := evictionSet(files, policy, time.Now())
	if dryRun {
		return doomed, nil
	}
	return s.Remove(ctx, doomed), nil
}

// Remove deletes exactly the named files. Individual failures are logged and
// skipped; the returned names are the ones actually removed.
func (s *LocalStore) Remove(ctx context.Context, names []string) []string {
	var removed []string
	for _, name := range names {
		if err := os.Remove(s.Path(name)); err != nil {
			slog.Warn("failed to remove local file", "file", name, "error", err)
			continue
		}
		removed = append(removed, name)
	}
	return removed
}

// RemoveInvalid deletes local files that fail the PDF signature check and
// returns their names. With dryRun the set is returned without deleting.
func (s *LocalStore) RemoveInvalid(ctx context.Context, dryRun bool) ([]string, error) {
	files, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, f := range files {
		if pdf.ValidFile(s.Path(f.Name)) {
			continue
		}
		if dryRun {
			removed = append(removed, f.Name)
			continue
		}
		if err := os.Remove(s.Path(f.Name)); err != nil {
			slog.Warn("failed to remove invalid file", "file", f.Name, "error", err)
			continue
		}
		removed = append(removed, f.Name)
	}
	return removed, nil
}

// DirInfo summarizes the local store for reporting.
type DirInfo struct {
	Dir          string
	TotalFiles   int
	ValidFiles   int
	InvalidFiles int
	TotalSize    int64
	OldestDate   time.Time
	NewestDate   time.Time
}

// Info gathers storage statistics over the downloads directory. The date range
// comes from the dates encoded in the filenames, not modification times.
func (s *LocalStore) Info(ctx context.Context) (*DirInfo, error) {
	files, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	info := &DirInfo{Dir: s.dir, TotalFiles: len(files)}
	for _, f := range files {
		info.TotalSize += f.Size
		if pdf.ValidFile(s.Path(f.Name)) {
			info.ValidFiles++
		} else {
			info.InvalidFiles++
		}

		_, date, err := catalog.ParseFilename(f.Name)
		if err != nil {
			continue
		}
		if info.OldestDate.IsZero() || date.Before(info.OldestDate) {
			info.OldestDate = date
		}
		if info.NewestDate.IsZero() || date.After(info.NewestDate) {
			info.NewestDate = date
		}
	}
	return info, nil
}
