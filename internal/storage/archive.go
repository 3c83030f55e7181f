package storage

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/klauspost/compress/flate"
)

// payloadEntryName is the archive entry carrying the caller-supplied JSON.
const payloadEntryName = "data.json"

// ArchiveExporter streams the entire file store plus an external JSON payload
// into a single zip archive. Composition is streaming: memory use is bounded
// by the copy buffer, not by total data size.
type ArchiveExporter struct {
	store *LocalStore
}

// NewArchiveExporter returns an exporter over the given store.
func NewArchiveExporter(store *LocalStore) *ArchiveExporter {
	return &ArchiveExporter{store: store}
}

// Export writes one archive to w: a data.json entry holding payload, then one
// entry per stored file under uploads/<category>/<storedName>. Hidden thumbnail
// areas are excluded; they are derived data. Any mid-stream failure aborts the
// export with an error before the central directory is written, so a truncated
// output never reads back as a valid archive.
func (e *ArchiveExporter) Export(ctx context.Context, w io.Writer, payload any) error {
	zw := zip.NewWriter(w)
	// Match the original backup tooling's maximum-compression deflate.
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	entry, err := zw.Create(payloadEntryName)
	if err != nil {
		return fmt.Errorf("create payload entry: %w", err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write payload entry: %w", err)
	}

	for _, cat := range e.store.Categories().List() {
		files, err := e.store.List(ctx, cat)
		if err != nil {
			return fmt.Errorf("list %s: %w", cat, err)
		}
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.addFile(zw, cat, f.StoredName); err != nil {
				return err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func (e *ArchiveExporter) addFile(zw *zip.Writer, category, storedName string) error {
	src, err := e.store.FilePath(category, storedName)
	if err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			// File vanished between list and read; skip it like List does.
			return nil
		}
		return fmt.Errorf("open %s/%s: %w", category, storedName, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s/%s: %w", category, storedName, err)
	}

	hdr := &zip.FileHeader{
		Name:     path.Join("uploads", category, storedName),
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	entry, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", hdr.Name, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("write entry %s: %w", hdr.Name, err)
	}
	return nil
}
