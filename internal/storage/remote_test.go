// ABOUTME: Tests for the cloud-backed remote store against a fake SuperNote server.
// ABOUTME: Covers duplicate detection, first-use folder creation, and remote retention cleanup.
package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/2389-research/gridsync/internal/supernote"
)

// fakeCloud is an in-memory stand-in for the SuperNote file API.
type fakeCloud struct {
	mu      sync.Mutex
	files   map[string]cloudFile // keyed by filename within the puzzles dir
	mkdirs  int
	deletes []string
}

type cloudFile struct {
	size       int64
	updateTime int64
}

func (f *fakeCloud) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/official/user/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "fake-token"})
	})

	mux.HandleFunc("/file/list", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		type entry struct {
			ID         string `json:"id"`
			Name       string `json:"fileName"`
			Size       int64  `json:"size"`
			IsFolder   bool   `json:"isFolder"`
			UpdateTime int64  `json:"updateTime"`
		}
		var list []entry
		for name, cf := range f.files {
			list = append(list, entry{ID: name, Name: name, Size: cf.size, UpdateTime: cf.updateTime})
		}
		list = append(list, entry{ID: "sub", Name: "archive", IsFolder: true})
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "fileList": list})
	})

	mux.HandleFunc("/file/folder", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.mkdirs++
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	mux.HandleFunc("/file/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		f.mu.Lock()
		defer f.mu.Unlock()
		f.files[header.Filename] = cloudFile{size: header.Size, updateTime: time.Now().UnixMilli()}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	mux.HandleFunc("/file/delete", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deletes = append(f.deletes, req.Path)
		for name := range f.files {
			if supernote.JoinPath(DefaultRemoteDir, name) == req.Path {
				delete(f.files, name)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	return mux
}

func newTestRemote(t *testing.T) (*RemoteStore, *fakeCloud) {
	t.Helper()
	cloud := &fakeCloud{files: make(map[string]cloudFile)}
	server := httptest.NewServer(cloud.handler())
	t.Cleanup(server.Close)

	session, err := supernote.NewClient(server.URL).Login(context.Background(), "u@example.com", "p")
	if err != nil {
		t.Fatalf("login against fake cloud failed: %v", err)
	}
	return NewRemoteStore(session, ""), cloud
}

func TestRemoteExists(t *testing.T) {
	store, cloud := newTestRemote(t)
	ctx := context.Background()

	cloud.files["guardian-quick-20250115.pdf"] = cloudFile{size: 100, updateTime: time.Now().UnixMilli()}

	exists, err := store.Exists(ctx, "guardian-quick-20250115.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("expected existing file to be found")
	}

	exists, err = store.Exists(ctx, "guardian-quick-20250116.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("expected missing file to be absent")
	}
}

func TestRemoteUploadEnsuresDirOnce(t *testing.T) {
	store, cloud := newTestRemote(t)
	ctx := context.Background()

	for _, name := range []string{"guardian-quick-20250115.pdf", "guardian-cryptic-20250115.pdf"} {
		if err := store.Upload(ctx, name, []byte("%PDF-")); err != nil {
			t.Fatalf("Upload error: %v", err)
		}
	}

	if cloud.mkdirs != 1 {
		t.Errorf("mkdir called %d times, want 1", cloud.mkdirs)
	}
	if len(cloud.files) != 2 {
		t.Errorf("cloud holds %d files, want 2", len(cloud.files))
	}
}

func TestRemoteListAllFiltersFolders(t *testing.T) {
	store, cloud := newTestRemote(t)
	cloud.files["guardian-quick-20250115.pdf"] = cloudFile{size: 256, updateTime: time.Now().UnixMilli()}

	files, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("ListAll returned %d entries, want 1 (folders filtered)", len(files))
	}
	if files[0].Size != 256 {
		t.Errorf("Size = %d, want 256", files[0].Size)
	}
}

func TestRemoteRemoveDeletesOnlyNamed(t *testing.T) {
	store, cloud := newTestRemote(t)
	ctx := context.Background()

	now := time.Now()
	expired := "guardian-quick-20250101.pdf"
	borderline := "guardian-quick-20250102.pdf"
	cloud.files[expired] = cloudFile{size: 10, updateTime: now.AddDate(0, 0, -120).UnixMilli()}
	cloud.files[borderline] = cloudFile{size: 10, updateTime: now.AddDate(0, 0, -89).UnixMilli()}

	confirmed, err := store.Cleanup(ctx, RetentionPolicy{MaxAgeDays: 90}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(confirmed) != 1 || confirmed[0] != expired {
		t.Fatalf("previewed set = %v, want [%s]", confirmed, expired)
	}

	// Age the borderline file past the threshold after the preview.
	cloud.files[borderline] = cloudFile{size: 10, updateTime: now.AddDate(0, 0, -120).UnixMilli()}

	removed := store.Remove(ctx, confirmed)
	if len(removed) != 1 || removed[0] != expired {
		t.Errorf("removed = %v, want exactly the confirmed set", removed)
	}
	if _, ok := cloud.files[borderline]; !ok {
		t.Error("file outside the confirmed set was deleted")
	}
}

func TestRemoteCleanup(t *testing.T) {
	store, cloud := newTestRemote(t)
	ctx := context.Background()

	now := time.Now()
	cloud.files["guardian-quick-20250101.pdf"] = cloudFile{size: 10, updateTime: now.AddDate(0, 0, -120).UnixMilli()}
	cloud.files["guardian-quick-20250115.pdf"] = cloudFile{size: 10, updateTime: now.UnixMilli()}

	policy := RetentionPolicy{MaxAgeDays: 90}

	doomed, err := store.Cleanup(ctx, policy, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(doomed) != 1 || doomed[0] != "guardian-quick-20250101.pdf" {
		t.Errorf("dry-run eviction set = %v", doomed)
	}
	if len(cloud.deletes) != 0 {
		t.Fatal("dry run issued deletes")
	}

	removed, err := store.Cleanup(ctx, policy, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 1 || removed[0] != "guardian-quick-20250101.pdf" {
		t.Errorf("removed = %v", removed)
	}
	if len(cloud.deletes) != 1 || cloud.deletes[0] != "Document/puzzles/guardian-quick-20250101.pdf" {
		t.Errorf("deletes = %v, want full cloud path", cloud.deletes)
	}
	if _, ok := cloud.files["guardian-quick-20250115.pdf"]; !ok {
		t.Error("fresh file removed from fake cloud")
	}
}
