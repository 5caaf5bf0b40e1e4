// ABOUTME: Remote puzzle store backed by an authenticated SuperNote cloud session.
// ABOUTME: Mirrors the local store's enumerate/retention contract over the cloud puzzles folder.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/2389-research/gridsync/internal/supernote"
)

// DefaultRemoteDir is the cloud folder that holds puzzle files.
const DefaultRemoteDir = "Document/puzzles"

// RemoteStore adapts a SuperNote session to the Store contract for one cloud
// directory. The session is supplied by the caller; the store never
// authenticates on its own.
type RemoteStore struct {
	session *supernote.Session
	dir     string
	ensured bool
}

// NewRemoteStore wraps an authenticated session around a cloud puzzles directory.
func NewRemoteStore(session *supernote.Session, dir string) *RemoteStore {
	if dir == "" {
		dir = DefaultRemoteDir
	}
	return &RemoteStore{session: session, dir: dir}
}

// Dir returns the cloud directory path.
func (s *RemoteStore) Dir() string {
	return s.dir
}

// list enumerates the puzzle files in the cloud directory, ignoring folders
// and anything that is not a guardian-*.pdf.
func (s *RemoteStore) list(ctx context.Context) ([]supernote.File, error) {
	entries, err := s.session.List(ctx, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var files []supernote.File
	for _, f := range entries {
		if f.IsFolder || !strings.HasPrefix(f.Name, "guardian-") || !strings.HasSuffix(f.Name, ".pdf") {
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// Exists reports whether a same-named puzzle file is already in the cloud directory.
func (s *RemoteStore) Exists(ctx context.Context, filename string) (bool, error) {
	files, err := s.list(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range files {
		if f.Name == filename {
			return true, nil
		}
	}
	return false, nil
}

// Upload stores a puzzle file in the cloud directory, creating the directory
// on first use.
func (s *RemoteStore) Upload(ctx context.Context, filename string, data []byte) error {
	if !s.ensured {
		if err := s.session.Mkdir(ctx, s.dir); err != nil {
			return fmt.Errorf("failed to ensure %s exists: %w", s.dir, err)
		}
		s.ensured = true
	}
	if err := s.session.Upload(ctx, s.dir, filename, data); err != nil {
		return fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return nil
}

// ListAll enumerates the cloud puzzle files with their reported modification times.
func (s *RemoteStore) ListAll(ctx context.Context) ([]FileInfo, error) {
	files, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]FileInfo, 0, len(files))
	for _, f := range files {
		out = append(out, FileInfo{
			Name:    f.Name,
			Size:    f.Size,
			ModTime: f.ModTime(),
		})
	}
	return out, nil
}

// Cleanup removes cloud files per the retention policy, oldest first.
// Individual deletion failures are logged and skipped. With dryRun the
// eviction set is returned without deleting anything.
func (s *RemoteStore) Cleanup(ctx context.Context, policy RetentionPolicy, dryRun bool) ([]string, error) {
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

// Remove deletes exactly the named files from the cloud directory. Individual
// failures are logged and skipped; the returned names are the ones actually
// removed.
func (s *RemoteStore) Remove(ctx context.Context, names []string) []string {
	var removed []string
	for _, name := range names {
		if err := s.session.Delete(ctx, supernote.JoinPath(s.dir, name)); err != nil {
			slog.Warn("failed to remove cloud file", "file", name, "error", err)
			continue
		}
		removed = append(removed, name)
	}
	return removed
}
