package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"fileapi/internal/storage"
)

// Failure reports one object that could not be downloaded.
type Failure struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Summary aggregates a download run.
type Summary struct {
	Downloaded int       `json:"downloaded"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Failures   []Failure `json:"failures,omitempty"`
}

// Downloader mirrors a bucket prefix into a local directory. Objects already
// present on disk are skipped, so interrupted runs can be resumed.
type Downloader struct {
	store       storage.ObjectStore
	outDir      string
	concurrency int
}

// NewDownloader constructs a Downloader writing under outDir. A concurrency
// below one is raised to one.
func NewDownloader(store storage.ObjectStore, outDir string, concurrency int) *Downloader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Downloader{
		store:       store,
		outDir:      outDir,
		concurrency: concurrency,
	}
}

// Run lists every object under prefix and downloads the missing ones in
// fixed-size batches of the configured concurrency.
func (d *Downloader) Run(ctx context.Context, prefix string) (*Summary, error) {
	objects, err := d.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	summary := &Summary{}
	var mu sync.Mutex

	for i := 0; i < len(objects); i += d.concurrency {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		end := i + d.concurrency
		if end > len(objects) {
			end = len(objects)
		}

		var wg sync.WaitGroup
		for _, obj := range objects[i:end] {
			wg.Add(1)
			go func(obj storage.ObjectInfo) {
				defer wg.Done()

				outcome, err := d.fetch(ctx, obj.Key)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					summary.Failed++
					summary.Failures = append(summary.Failures, Failure{Key: obj.Key, Message: err.Error()})
				case outcome == fetchSkipped:
					summary.Skipped++
				default:
					summary.Downloaded++
				}
			}(obj)
		}
		wg.Wait()
	}

	return summary, nil
}

type fetchOutcome int

const (
	fetchDownloaded fetchOutcome = iota
	fetchSkipped
)

// fetch writes one object to disk. A partially written file is removed on
// failure so a rerun does not mistake it for a completed download.
func (d *Downloader) fetch(ctx context.Context, key string) (fetchOutcome, error) {
	dest := filepath.Join(d.outDir, filepath.FromSlash(key))

	if _, err := os.Stat(dest); err == nil {
		return fetchSkipped, nil
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("stat %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	rc, _, err := d.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("get object: %w", err)
	}
	defer rc.Close()

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(dest)
		return 0, fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return 0, fmt.Errorf("close file: %w", err)
	}

	return fetchDownloaded, nil
}
