package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("nspace", "mldata")

// fetcher ensures remote files are present in a cache directory. It is the
// only component that touches the network, and the only one that writes to
// the cache.
type fetcher struct {
	client   *http.Client
	download bool
	verify   bool
}

// ensureLocal makes sure entry is present and valid under dir and returns
// its local path. A file that exists and passes the (optional) checksum is
// returned without network access. An invalid or missing file is downloaded
// to a temporary file in dir and atomically renamed into place, so a
// concurrent reader observes either the old complete file or the new one,
// never a partial write.
func (f *fetcher) ensureLocal(dir string, entry FileEntry) (string, error) {
	target := filepath.Join(dir, entry.Filename)

	valid, err := f.validCached(target, entry)
	if err != nil {
		return "", err
	}
	if valid {
		return target, nil
	}

	if !f.download {
		if _, err := os.Stat(target); err == nil {
			// The file is present but failed verification, and we
			// cannot replace it.
			got, herr := fileSHA256(target)
			if herr != nil {
				return "", herr
			}
			return "", &IntegrityError{Filename: entry.Filename, Want: entry.SHA256, Got: got}
		}
		return "", fmt.Errorf("%s: %w", entry.Filename, ErrNotCached)
	}

	if err := f.fetch(dir, target, entry); err != nil {
		return "", err
	}
	return target, nil
}

// validCached reports whether target exists and, when verification is
// configured, matches the declared checksum.
func (f *fetcher) validCached(target string, entry FileEntry) (bool, error) {
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", target, err)
	}
	if !f.verify || entry.SHA256 == "" {
		return true, nil
	}
	got, err := fileSHA256(target)
	if err != nil {
		return false, err
	}
	return got == entry.SHA256, nil
}

// fetch downloads entry.URL into target. The body is written to a temporary
// file in the same directory and renamed into place only after the transfer
// completes and the checksum (if configured) passes. On any failure the
// temporary file is removed and a previously cached file is left untouched.
func (f *fetcher) fetch(dir, target string, entry FileEntry) error {
	log.Debugf("downloading %s", entry.URL)

	resp, err := f.client.Get(entry.URL)
	if err != nil {
		return &FetchError{URL: entry.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{URL: entry.URL, Status: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(dir, entry.Filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), resp.Body)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &FetchError{URL: entry.URL, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if f.verify && entry.SHA256 != "" {
		got := hex.EncodeToString(hash.Sum(nil))
		if got != entry.SHA256 {
			os.Remove(tmpName)
			return &IntegrityError{Filename: entry.Filename, Want: entry.SHA256, Got: got}
		}
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}

	log.Infof("downloaded %s (%s)", entry.Filename, humanize.Bytes(uint64(n)))
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
