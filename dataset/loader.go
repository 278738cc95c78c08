package dataset

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Builder configures a Loader for one dataset. The zero value is not
// usable; start from New. Builders are immutable: each method returns an
// updated copy, so configured builders can be shared freely.
type Builder struct {
	desc     *Descriptor
	root     string
	download bool
	verify   bool
	client   *http.Client
}

// New returns a builder for the given descriptor with downloads and
// checksum verification enabled and the platform-default cache root.
func New(d *Descriptor) Builder {
	return Builder{
		desc:     d,
		download: true,
		verify:   true,
	}
}

// DataRoot overrides the cache root directory. The path is used verbatim;
// the per-dataset subdirectory is still appended underneath it.
func (b Builder) DataRoot(path string) Builder {
	b.root = path
	return b
}

// Download enables or disables network access. When disabled, a cache miss
// fails with ErrNotCached instead of attempting a transfer.
func (b Builder) Download(on bool) Builder {
	b.download = on
	return b
}

// Verify enables or disables checksum verification for files that declare
// one. Disabling it trades integrity guarantees for compatibility with
// archives whose content drifts.
func (b Builder) Verify(on bool) Builder {
	b.verify = on
	return b
}

// Client overrides the HTTP client used for downloads, e.g. to set
// timeouts or to point tests at a local server.
func (b Builder) Client(c *http.Client) Builder {
	b.client = c
	return b
}

// Create validates the configuration, resolves the cache directory and
// returns a ready Loader. The dataset's cache subdirectory is created here;
// no other I/O happens.
func (b Builder) Create() (*Loader, error) {
	if b.desc == nil {
		return nil, &ConfigError{Reason: "no descriptor"}
	}
	if err := b.desc.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Join(resolveRoot(b.root), filepath.FromSlash(b.desc.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot create cache directory %s: %v", dir, err)}
	}

	client := b.client
	if client == nil {
		client = http.DefaultClient
	}

	return &Loader{
		desc: b.desc,
		dir:  dir,
		fetcher: fetcher{
			client:   client,
			download: b.download,
			verify:   b.verify,
		},
	}, nil
}

// Loader orchestrates the fetcher and the dataset's parser. It holds no
// state beyond its configuration and the resolved cache directory, which is
// fixed for its lifetime.
type Loader struct {
	desc    *Descriptor
	dir     string
	fetcher fetcher
}

// Dir returns the dataset's cache directory.
func (l *Loader) Dir() string { return l.dir }

// ensureFiles makes every descriptor file locally present and valid,
// returning their paths in declared order. Files are fetched sequentially;
// already-valid cached files cause no network access.
func (l *Loader) ensureFiles() ([]string, error) {
	paths := make([]string, len(l.desc.Files))
	for i, entry := range l.desc.Files {
		p, err := l.fetcher.ensureLocal(l.dir, entry)
		if err != nil {
			return nil, err
		}
		paths[i] = p
	}
	return paths, nil
}

// LoadInfo ensures the dataset files are present and returns summary
// metadata derived from the descriptor without parsing sample content.
// NumSamples is -1 since counting requires a full parse; Table.Info reports
// the exact count once data is loaded.
func (l *Loader) LoadInfo() (Info, error) {
	paths, err := l.ensureFiles()
	if err != nil {
		return Info{}, err
	}

	info := l.desc.info()
	info.NumSamples = -1

	if l.desc.InfoFile != "" {
		for i, entry := range l.desc.Files {
			if entry.Filename == l.desc.InfoFile {
				text, err := os.ReadFile(paths[i])
				if err != nil {
					return Info{}, fmt.Errorf("read %s: %w", paths[i], err)
				}
				info.Description = string(text)
				break
			}
		}
	}
	return info, nil
}

// LoadData ensures the dataset files are present and invokes the dataset's
// parser to build the full in-memory table. Calling it twice revalidates
// the cache but does not re-download valid files.
func (l *Loader) LoadData() (*Table, error) {
	paths, err := l.ensureFiles()
	if err != nil {
		return nil, err
	}
	return l.desc.Parse(paths, l.desc)
}
