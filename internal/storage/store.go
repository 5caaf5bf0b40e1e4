// ABOUTME: Shared storage contract and retention policy for puzzle file stores.
// ABOUTME: Computes eviction sets as the union of age-expired and count-overflow files.
package storage

import (
	"context"
	"sort"
	"time"
)

// RetentionPolicy bounds how long and how many puzzle files a store keeps.
// A zero value for either field disables that limit.
type RetentionPolicy struct {
	MaxAgeDays int
	MaxFiles   int
}

// FileInfo describes one stored puzzle file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// AgeDays returns full days elapsed between the file's modification time and now.
func (f FileInfo) AgeDays(now time.Time) int {
	return int(now.Sub(f.ModTime).Hours() / 24)
}

// Store is the common enumerate/retention contract shared by the local
// downloads directory and the cloud puzzles folder.
type Store interface {
	// Exists reports whether a same-named puzzle file is already present.
	Exists(ctx context.Context, filename string) (bool, error)

	// ListAll enumerates the puzzle files the store currently holds.
	ListAll(ctx context.Context) ([]FileInfo, error)

	// Cleanup removes files per the retention policy and returns their names.
	// With dryRun it returns the eviction set without touching anything.
	Cleanup(ctx context.Context, policy RetentionPolicy, dryRun bool) ([]string, error)

	// Remove deletes exactly the named files and returns the names actually
	// removed. It never recomputes an eviction set, so a set previewed and
	// confirmed by the user is the set that gets deleted.
	Remove(ctx context.Context, names []string) []string
}

// evictionSet returns the names to remove under the policy: every file older
// than MaxAgeDays, plus the oldest files beyond MaxFiles. The two sets are
// unioned, ordered oldest first.
func evictionSet(files []FileInfo, policy RetentionPolicy, now time.Time) []string {
	sorted := make([]FileInfo, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ModTime.Equal(sorted[j].ModTime) {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ModTime.Before(sorted[j].ModTime)
	})

	excess := 0
	if policy.MaxFiles > 0 && len(sorted) > policy.MaxFiles {
		excess = len(sorted) - policy.MaxFiles
	}

	var out []string
	for i, f := range sorted {
		expired := policy.MaxAgeDays > 0 && f.AgeDays(now) > policy.MaxAgeDays
		if expired || i < excess {
			out = append(out, f.Name)
		}
	}
	return out
}
