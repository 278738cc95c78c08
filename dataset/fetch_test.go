package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// fileServer serves the given files and counts requests per path.
type fileServer struct {
	*httptest.Server
	files    map[string][]byte
	requests map[string]int
	failAll  bool
}

func newFileServer(t *testing.T) *fileServer {
	t.Helper()
	fs := &fileServer{
		files:    make(map[string][]byte),
		requests: make(map[string]int),
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.requests[r.URL.Path]++
		if fs.failAll {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		content, ok := fs.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(content)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fileServer) totalRequests() int {
	n := 0
	for _, c := range fs.requests {
		n += c
	}
	return n
}

func sum256(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}

// servedPointsDescriptor points the synthetic dataset at a local server,
// with a checksum for its single data file.
func servedPointsDescriptor(fs *fileServer, content string) *Descriptor {
	fs.files["/points.csv"] = []byte(content)
	d := pointsDescriptor()
	d.Files = []FileEntry{
		{URL: fs.URL + "/points.csv", Filename: "points.csv", SHA256: sum256(content)},
	}
	return d
}

func TestLoadDataDownloadsEachFileOnce(t *testing.T) {
	fs := newFileServer(t)
	d := servedPointsDescriptor(fs, "1,2,a\n3,4,b\n")
	root := t.TempDir()

	loader, err := New(d).DataRoot(root).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		table, err := loader.LoadData()
		if err != nil {
			t.Fatalf("LoadData #%d failed: %v", i+1, err)
		}
		if table.NumSamples() != 2 {
			t.Fatalf("LoadData #%d: expected 2 samples, got %d", i+1, table.NumSamples())
		}
	}

	if got := fs.requests["/points.csv"]; got != 1 {
		t.Fatalf("expected exactly 1 download, got %d", got)
	}
}

func TestOfflineMissFailsWithNotCached(t *testing.T) {
	fs := newFileServer(t)
	d := servedPointsDescriptor(fs, "1,2,a\n")
	root := t.TempDir()

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = loader.LoadData()
	if !errors.Is(err, ErrNotCached) {
		t.Fatalf("expected ErrNotCached, got %v", err)
	}
	if fs.totalRequests() != 0 {
		t.Fatalf("offline mode performed %d network calls", fs.totalRequests())
	}
}

func TestOfflineHitNeedsNoNetwork(t *testing.T) {
	fs := newFileServer(t)
	content := "1,2,a\n"
	d := servedPointsDescriptor(fs, content)
	root := t.TempDir()
	seedCache(t, root, d, "points.csv", content)

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := loader.LoadData(); err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}
	if fs.totalRequests() != 0 {
		t.Fatalf("cache hit performed %d network calls", fs.totalRequests())
	}
}

func TestInterruptedDownloadLeavesRetriableCache(t *testing.T) {
	fs := newFileServer(t)
	content := "1,2,a\n3,4,b\n"
	d := servedPointsDescriptor(fs, content)
	root := t.TempDir()

	// A previously interrupted download left a stale temp file behind.
	dir := filepath.Join(root, "test", "points")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create cache dir: %v", err)
	}
	stale := filepath.Join(dir, "points.csv.tmp-123456")
	if err := os.WriteFile(stale, []byte("PARTIAL"), 0o644); err != nil {
		t.Fatalf("failed to write stale temp: %v", err)
	}

	loader, err := New(d).DataRoot(root).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// First attempt fails server-side: no target file may appear.
	fs.failAll = true
	_, err = loader.LoadData()
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "points.csv")); !os.IsNotExist(err) {
		t.Fatalf("failed download must not create the target file")
	}

	// Retry succeeds and the stale temp file is never treated as cache.
	fs.failAll = false
	table, err := loader.LoadData()
	if err != nil {
		t.Fatalf("retry LoadData failed: %v", err)
	}
	if table.NumSamples() != 2 {
		t.Fatalf("expected 2 samples after retry, got %d", table.NumSamples())
	}
	got, err := os.ReadFile(filepath.Join(dir, "points.csv"))
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(got) != content {
		t.Fatalf("cached content %q does not match served content %q", got, content)
	}
}

func TestFetchFailureKeepsExistingFile(t *testing.T) {
	fs := newFileServer(t)
	d := servedPointsDescriptor(fs, "1,2,a\n")
	root := t.TempDir()

	// The cached copy is corrupt, and the server is down: the failed
	// refresh must leave the old bytes in place.
	seedCache(t, root, d, "points.csv", "CORRUPT")
	fs.failAll = true

	loader, err := New(d).DataRoot(root).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = loader.LoadData()
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "test", "points", "points.csv"))
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(got) != "CORRUPT" {
		t.Fatalf("failed fetch modified the existing cache entry: %q", got)
	}
}

func TestFreshDownloadIntegrityMismatch(t *testing.T) {
	fs := newFileServer(t)
	d := servedPointsDescriptor(fs, "1,2,a\n")
	// Declare a checksum that cannot match what the server sends.
	d.Files[0].SHA256 = sum256("something else entirely")
	root := t.TempDir()

	loader, err := New(d).DataRoot(root).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = loader.LoadData()
	var intErr *IntegrityError
	if !errors.As(err, &intErr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if intErr.Filename != "points.csv" {
		t.Fatalf("unexpected filename %q", intErr.Filename)
	}

	dir := filepath.Join(root, "test", "points")
	if _, err := os.Stat(filepath.Join(dir, "points.csv")); !os.IsNotExist(err) {
		t.Fatalf("rejected download must not be renamed into place")
	}
	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestCorruptCacheOfflineIntegrity(t *testing.T) {
	fs := newFileServer(t)
	d := servedPointsDescriptor(fs, "1,2,a\n")
	root := t.TempDir()
	seedCache(t, root, d, "points.csv", "CORRUPT")

	loader, err := New(d).DataRoot(root).Download(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = loader.LoadData()
	var intErr *IntegrityError
	if !errors.As(err, &intErr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
}

func TestCorruptCacheIsRedownloaded(t *testing.T) {
	fs := newFileServer(t)
	content := "1,2,a\n"
	d := servedPointsDescriptor(fs, content)
	root := t.TempDir()
	seedCache(t, root, d, "points.csv", "CORRUPT")

	loader, err := New(d).DataRoot(root).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	table, err := loader.LoadData()
	if err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}
	if table.NumSamples() != 1 {
		t.Fatalf("expected 1 sample, got %d", table.NumSamples())
	}
	if got := fs.requests["/points.csv"]; got != 1 {
		t.Fatalf("expected exactly 1 download, got %d", got)
	}
}

func TestVerifyOffAcceptsDriftedContent(t *testing.T) {
	fs := newFileServer(t)
	d := servedPointsDescriptor(fs, "1,2,a\n")
	d.Files[0].SHA256 = sum256("an older revision")
	root := t.TempDir()

	loader, err := New(d).DataRoot(root).Verify(false).Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := loader.LoadData(); err != nil {
		t.Fatalf("LoadData with verification off failed: %v", err)
	}
}
