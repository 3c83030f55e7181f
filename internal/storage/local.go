package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fileapi/internal/config"
	"fileapi/internal/model"
)

// LocalStore owns one upload root containing a subdirectory per category plus
// a hidden thumbnail subdirectory per category. Files are immutable once
// stored: "update" is delete + recreate.
//
// Concurrent operations on the same stored name are not serialized. Two puts
// can never target the same path (stored names carry a process-wide sequence),
// but a concurrent delete+delete race resolves to last-filesystem-operation
// wins, with the loser reporting ErrNotFound.
type LocalStore struct {
	root         string
	categories   *CategorySet
	thumbs       *ThumbnailGenerator
	batchWorkers int
}

// BatchItem identifies one target of a batch delete.
type BatchItem struct {
	Category   string `json:"system"`
	StoredName string `json:"filename"`
}

// BatchError reports one failed batch delete item.
type BatchError struct {
	Category   string `json:"system"`
	StoredName string `json:"filename"`
	Message    string `json:"error"`
}

// BatchResult aggregates a non-transactional batch delete. Partial completion
// is expected and reported, never hidden.
type BatchResult struct {
	DeletedCount int          `json:"deletedCount"`
	Errors       []BatchError `json:"errors,omitempty"`
}

// NewLocalStore creates the store and eagerly provisions the root, every
// category directory and its hidden thumbnail area. Directory creation is
// idempotent and safe to run concurrently with other instances.
func NewLocalStore(cfg config.StoreConfig, categories *CategorySet, thumbs *ThumbnailGenerator) (*LocalStore, error) {
	if cfg.RootDir == "" {
		return nil, fmt.Errorf("upload root dir is required")
	}
	workers := cfg.BatchWorkers
	if workers <= 0 {
		workers = 3
	}
	s := &LocalStore{
		root:         cfg.RootDir,
		categories:   categories,
		thumbs:       thumbs,
		batchWorkers: workers,
	}
	for _, cat := range categories.List() {
		if err := os.MkdirAll(s.thumbDir(cat), 0o755); err != nil {
			return nil, fmt.Errorf("provision category %s: %w", cat, err)
		}
	}
	return s, nil
}

// Root returns the upload root directory.
func (s *LocalStore) Root() string { return s.root }

// Categories returns the category registry backing this store.
func (s *LocalStore) Categories() *CategorySet { return s.categories }

func (s *LocalStore) categoryDir(category string) string {
	return filepath.Join(s.root, category)
}

func (s *LocalStore) thumbDir(category string) string {
	return filepath.Join(s.root, category, thumbDirName)
}

// FilePath returns the on-disk path for a stored file after validating the
// category and rejecting names that are not a single path segment.
func (s *LocalStore) FilePath(category, storedName string) (string, error) {
	if !s.categories.IsValid(category) {
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	if storedName == "" || storedName != filepath.Base(storedName) || strings.ContainsAny(storedName, `/\`) {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, category, storedName)
	}
	return filepath.Join(s.categoryDir(category), storedName), nil
}

// ThumbnailPath returns the on-disk path where the thumbnail for storedName
// lives, whether or not one exists.
func (s *LocalStore) ThumbnailPath(category, storedName string) string {
	return filepath.Join(s.thumbDir(category), storedName)
}

// Put stores content under category with a derived name and returns the
// descriptor. Content is written to a temporary file in the category directory
// and renamed into place, so a partially-written file is never visible under
// its final name; on failure the temporary file is removed.
//
// Media type and size are expected to have passed the upload gate already;
// Put re-validates the category only. Thumbnail generation runs inline after a
// successful rename; its failure is logged and leaves HasThumbnail false.
func (s *LocalStore) Put(ctx context.Context, category, originalName, mediaType string, r io.Reader, sizeBytes int64) (*model.StoredFile, error) {
	if !s.categories.IsValid(category) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.categoryDir(category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create category dir: %w", err)
	}

	storedName := DeriveStoredName(originalName)
	finalPath := filepath.Join(dir, storedName)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("finalize upload: %w", err)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return nil, fmt.Errorf("stat stored file: %w", err)
	}

	hasThumb := false
	if s.thumbs != nil && IsImageName(storedName) {
		if err := s.thumbs.Generate(finalPath, s.ThumbnailPath(category, storedName)); err != nil {
			log.Printf("thumbnail generation failed for %s/%s: %v", category, storedName, err)
		} else {
			hasThumb = true
		}
	}

	return &model.StoredFile{
		Category:     category,
		StoredName:   storedName,
		OriginalName: originalName,
		SizeBytes:    written,
		MediaType:    mediaType,
		CreatedAt:    info.ModTime(),
		ModifiedAt:   info.ModTime(),
		HasThumbnail: hasThumb,
	}, nil
}

// List returns the category's files ordered most-recently-modified first.
// Hidden entries (the thumbnail area, in-flight temp files) are excluded, and
// entries that disappear mid-scan are skipped rather than failing the listing.
func (s *LocalStore) List(ctx context.Context, category string) ([]model.StoredFile, error) {
	if !s.categories.IsValid(category) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.categoryDir(category))
	if err != nil {
		if os.IsNotExist(err) {
			return []model.StoredFile{}, nil
		}
		return nil, fmt.Errorf("read category dir: %w", err)
	}

	files := make([]model.StoredFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Entry vanished between readdir and stat.
			continue
		}
		name := e.Name()
		hasThumb := false
		if IsImageName(name) {
			if _, err := os.Stat(s.ThumbnailPath(category, name)); err == nil {
				hasThumb = true
			}
		}
		files = append(files, model.StoredFile{
			Category:     category,
			StoredName:   name,
			SizeBytes:    info.Size(),
			CreatedAt:    info.ModTime(),
			ModifiedAt:   info.ModTime(),
			HasThumbnail: hasThumb,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	return files, nil
}

// Delete removes the stored file and, best-effort, its thumbnail. A missing
// primary file yields ErrNotFound with no filesystem mutation; a thumbnail
// removal failure is logged but does not fail the delete.
func (s *LocalStore) Delete(ctx context.Context, category, storedName string) error {
	path, err := s.FilePath(category, storedName)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, category, storedName)
		}
		return fmt.Errorf("delete file: %w", err)
	}

	if err := os.Remove(s.ThumbnailPath(category, storedName)); err != nil && !os.IsNotExist(err) {
		log.Printf("thumbnail cleanup failed for %s/%s: %v", category, storedName, err)
	}
	return nil
}

// BatchDelete processes every item independently through a bounded worker
// pool. One item's failure never aborts its siblings; the aggregated result
// reports the delete count and per-item errors. Not transactional.
func (s *LocalStore) BatchDelete(ctx context.Context, items []BatchItem) *BatchResult {
	res := &BatchResult{}
	if len(items) == 0 {
		return res
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.batchWorkers)
	)
	for _, it := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(it BatchItem) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.Delete(ctx, it.Category, it.StoredName)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors = append(res.Errors, BatchError{
					Category:   it.Category,
					StoredName: it.StoredName,
					Message:    err.Error(),
				})
				return
			}
			res.DeletedCount++
		}(it)
	}
	wg.Wait()
	return res
}

// Stats walks every category directory at call time and aggregates file counts
// and sizes. No counters are cached; this is a low-frequency admin operation.
func (s *LocalStore) Stats(ctx context.Context) (*model.StorageStats, error) {
	out := &model.StorageStats{Systems: make([]model.CategoryStats, 0, len(s.categories.List()))}
	for _, cat := range s.categories.List() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs := model.CategoryStats{System: cat}
		entries, err := os.ReadDir(s.categoryDir(cat))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("scan category %s: %w", cat, err)
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			cs.FileCount++
			cs.TotalSize += info.Size()
		}
		out.Systems = append(out.Systems, cs)
		out.TotalFiles += cs.FileCount
		out.TotalSize += cs.TotalSize
	}
	return out, nil
}
