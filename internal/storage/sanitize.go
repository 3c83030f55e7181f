package storage

import (
	"fmt"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// unsafeChars matches every byte that may not appear in a stored name.
// Path separators, control characters and anything non-ASCII are replaced,
// so the result is always a single path segment.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// nameSeq disambiguates names generated within the same millisecond.
var nameSeq atomic.Uint64

// DeriveStoredName maps a caller-supplied filename to the safe, collision-resistant
// name used on disk. The result is "<unix-milli>-<seq>_<filtered original>" with the
// original extension preserved by the filter. Hostile input (traversal sequences,
// separators, unicode) degrades to underscores; an empty filename falls back to a
// generated token. The output never contains a path separator and is never "." or "..".
func DeriveStoredName(originalName string) string {
	safe := unsafeChars.ReplaceAllString(originalName, "_")
	if safe == "" {
		safe = uuid.NewString()
	}
	return fmt.Sprintf("%d-%d_%s", time.Now().UnixMilli(), nameSeq.Add(1), safe)
}
