// ABOUTME: Tests for retention policy eviction-set computation.
// ABOUTME: Verifies age and count limits independently and as a union.
package storage

import (
	"fmt"
	"testing"
	"time"
)

func fileAged(name string, ageDays int, now time.Time) FileInfo {
	return FileInfo{
		Name:    name,
		Size:    1024,
		ModTime: now.AddDate(0, 0, -ageDays),
	}
}

func TestEvictionSetEmpty(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		fileAged("guardian-quick-20250115.pdf", 5, now),
		fileAged("guardian-cryptic-20250114.pdf", 6, now),
	}

	got := evictionSet(files, RetentionPolicy{MaxAgeDays: 30, MaxFiles: 150}, now)
	if len(got) != 0 {
		t.Errorf("evictionSet = %v, want empty", got)
	}
}

func TestEvictionSetAgeLimit(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		fileAged("fresh.pdf", 10, now),
		fileAged("stale.pdf", 31, now),
		fileAged("ancient.pdf", 90, now),
	}

	got := evictionSet(files, RetentionPolicy{MaxAgeDays: 30}, now)
	want := []string{"ancient.pdf", "stale.pdf"}
	if len(got) != len(want) {
		t.Fatalf("evictionSet = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("evictionSet[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEvictionSetExactAgeKept(t *testing.T) {
	now := time.Now()
	files := []FileInfo{fileAged("boundary.pdf", 30, now)}

	if got := evictionSet(files, RetentionPolicy{MaxAgeDays: 30}, now); len(got) != 0 {
		t.Errorf("file at exactly the age limit was evicted: %v", got)
	}
}

func TestEvictionSetCountLimit(t *testing.T) {
	now := time.Now()
	var files []FileInfo
	for i := 0; i < 200; i++ {
		// Older files have higher age, so indexes 199..150 are the oldest 50.
		files = append(files, fileAged(fmt.Sprintf("guardian-quick-%03d.pdf", i), i, now))
	}

	got := evictionSet(files, RetentionPolicy{MaxFiles: 150}, now)
	if len(got) != 50 {
		t.Fatalf("evicted %d files, want 50", len(got))
	}
	// Oldest first.
	if got[0] != files[199].Name {
		t.Errorf("first eviction = %q, want oldest file %q", got[0], files[199].Name)
	}
	if got[49] != files[150].Name {
		t.Errorf("last eviction = %q, want %q", got[49], files[150].Name)
	}
}

func TestEvictionSetUnion(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		fileAged("expired-and-excess.pdf", 40, now),
		fileAged("excess-only.pdf", 20, now),
		fileAged("kept-b.pdf", 10, now),
		fileAged("kept-a.pdf", 5, now),
	}

	got := evictionSet(files, RetentionPolicy{MaxAgeDays: 30, MaxFiles: 2}, now)
	want := []string{"expired-and-excess.pdf", "excess-only.pdf"}
	if len(got) != len(want) {
		t.Fatalf("evictionSet = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("evictionSet[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEvictionSetZeroPolicyDisabled(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		fileAged("old.pdf", 500, now),
		fileAged("older.pdf", 1000, now),
	}

	if got := evictionSet(files, RetentionPolicy{}, now); len(got) != 0 {
		t.Errorf("zero policy evicted %v, want nothing", got)
	}
}

func TestAgeDays(t *testing.T) {
	now := time.Now()
	f := FileInfo{ModTime: now.Add(-49 * time.Hour)}
	if got := f.AgeDays(now); got != 2 {
		t.Errorf("AgeDays = %d, want 2", got)
	}
}
