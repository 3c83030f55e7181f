package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileapi/internal/config"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	cfg := config.StoreConfig{
		RootDir:       t.TempDir(),
		BatchWorkers:  3,
		ThumbnailSize: 64,
	}
	cats := NewCategorySet([]string{"TQM", "KPI"})
	store, err := NewLocalStore(cfg, cats, NewThumbnailGenerator(64))
	require.NoError(t, err)
	return store
}

// jpegBytes renders a small solid-color JPEG for thumbnail tests.
func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNewLocalStore_ProvisionsDirectories(t *testing.T) {
	store := newTestStore(t)

	for _, cat := range []string{"TQM", "KPI"} {
		info, err := os.Stat(filepath.Join(store.Root(), cat, thumbDirName))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestLocalStore_PutAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f, err := store.Put(ctx, "TQM", "report.pdf", "application/pdf", strings.NewReader("%PDF-1.4 fake"), 13)
	require.NoError(t, err)

	assert.Equal(t, "TQM", f.Category)
	assert.Equal(t, "report.pdf", f.OriginalName)
	assert.Equal(t, int64(13), f.SizeBytes)
	assert.True(t, strings.HasSuffix(f.StoredName, "_report.pdf"))
	assert.False(t, f.HasThumbnail)

	files, err := store.List(ctx, "TQM")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, f.StoredName, files[0].StoredName)

	// No leftover temp files in the category directory.
	entries, err := os.ReadDir(filepath.Join(store.Root(), "TQM"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestLocalStore_ListOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older, err := store.Put(ctx, "TQM", "older.pdf", "application/pdf", strings.NewReader("a"), 1)
	require.NoError(t, err)
	newer, err := store.Put(ctx, "TQM", "newer.pdf", "application/pdf", strings.NewReader("b"), 1)
	require.NoError(t, err)

	// Force distinct mtimes regardless of filesystem timestamp resolution.
	oldPath, err := store.FilePath("TQM", older.StoredName)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	files, err := store.List(ctx, "TQM")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, newer.StoredName, files[0].StoredName, "most recently modified first")
	assert.Equal(t, older.StoredName, files[1].StoredName)
}

func TestLocalStore_PutInvalidCategory(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Put(context.Background(), "NOPE", "a.pdf", "application/pdf", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, statErr := os.Stat(filepath.Join(store.Root(), "NOPE"))
	assert.True(t, os.IsNotExist(statErr), "no directory may be created for an invalid category")
}

func TestLocalStore_JPEGGetsThumbnail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	src := jpegBytes(t, 320, 240)
	f, err := store.Put(ctx, "TQM", "photo.jpg", "image/jpeg", bytes.NewReader(src), int64(len(src)))
	require.NoError(t, err)
	assert.True(t, f.HasThumbnail)

	thumb, err := os.Open(store.ThumbnailPath("TQM", f.StoredName))
	require.NoError(t, err)
	defer thumb.Close()

	img, err := jpeg.Decode(thumb)
	require.NoError(t, err, "thumbnail is always re-encoded as JPEG")
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	files, err := store.List(ctx, "TQM")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, files[0].HasThumbnail)
}

func TestLocalStore_CorruptImageUploadStillSucceeds(t *testing.T) {
	store := newTestStore(t)

	f, err := store.Put(context.Background(), "TQM", "broken.png", "image/png", strings.NewReader("not a png"), 9)
	require.NoError(t, err, "thumbnail failure must not fail the put")
	assert.False(t, f.HasThumbnail)

	_, statErr := os.Stat(store.ThumbnailPath("TQM", f.StoredName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStore_DeleteRemovesThumbnail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	src := jpegBytes(t, 100, 100)
	f, err := store.Put(ctx, "TQM", "pic.jpg", "image/jpeg", bytes.NewReader(src), int64(len(src)))
	require.NoError(t, err)
	require.True(t, f.HasThumbnail)

	require.NoError(t, store.Delete(ctx, "TQM", f.StoredName))

	path, _ := store.FilePath("TQM", f.StoredName)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.ThumbnailPath("TQM", f.StoredName))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_DeleteNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), "TQM", "1700000000000-1_missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete(context.Background(), "NOPE", "whatever.pdf")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestLocalStore_DeleteRejectsNestedNames(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), "TQM", "../KPI/steal.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_BatchDeleteMixed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var items []BatchItem
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		f, err := store.Put(ctx, "TQM", name, "application/pdf", strings.NewReader("x"), 1)
		require.NoError(t, err)
		items = append(items, BatchItem{Category: "TQM", StoredName: f.StoredName})
	}
	items = append(items,
		BatchItem{Category: "TQM", StoredName: "1700000000000-9_gone.pdf"},
		BatchItem{Category: "BOGUS", StoredName: "x.pdf"},
	)

	res := store.BatchDelete(ctx, items)

	assert.Equal(t, 3, res.DeletedCount)
	assert.Len(t, res.Errors, 2)

	files, err := store.List(ctx, "TQM")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLocalStore_BatchDeleteEmpty(t *testing.T) {
	store := newTestStore(t)

	res := store.BatchDelete(context.Background(), nil)
	assert.Equal(t, 0, res.DeletedCount)
	assert.Empty(t, res.Errors)
}

func TestLocalStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "TQM", "a.pdf", "application/pdf", strings.NewReader("aaaa"), 4)
	require.NoError(t, err)
	_, err = store.Put(ctx, "TQM", "b.pdf", "application/pdf", strings.NewReader("bb"), 2)
	require.NoError(t, err)
	src := jpegBytes(t, 50, 50)
	_, err = store.Put(ctx, "KPI", "c.jpg", "image/jpeg", bytes.NewReader(src), int64(len(src)))
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	var sumFiles int
	var sumSize int64
	for _, cs := range stats.Systems {
		sumFiles += cs.FileCount
		sumSize += cs.TotalSize

		files, err := store.List(ctx, cs.System)
		require.NoError(t, err)
		assert.Equal(t, len(files), cs.FileCount, "stats count must match list for %s", cs.System)
	}
	assert.Equal(t, sumFiles, stats.TotalFiles)
	assert.Equal(t, sumSize, stats.TotalSize)
	assert.Equal(t, 3, stats.TotalFiles)
	// Thumbnails never count toward usage.
	assert.Equal(t, int64(6+len(src)), stats.TotalSize)
}
