package model

import "time"

// StoredFile describes one file persisted under a category directory.
// This is a pure domain model with no HTTP- or filesystem-specific dependencies;
// it can be used across layers without coupling to persistence details.
type StoredFile struct {
	Category     string    `json:"category"`
	StoredName   string    `json:"stored_name"`
	OriginalName string    `json:"original_name,omitempty"`
	SizeBytes    int64     `json:"size_bytes"`
	MediaType    string    `json:"media_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
	HasThumbnail bool      `json:"has_thumbnail"`
}

// CategoryStats aggregates disk usage for one category.
type CategoryStats struct {
	System    string `json:"system"`
	FileCount int    `json:"fileCount"`
	TotalSize int64  `json:"totalSize"`
}

// StorageStats is the full-scan result of the stats operation.
type StorageStats struct {
	Systems    []CategoryStats `json:"systems"`
	TotalFiles int             `json:"totalFiles"`
	TotalSize  int64           `json:"totalSize"`
}
