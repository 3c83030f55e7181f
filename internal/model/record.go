package model

import (
	"encoding/json"
	"time"
)

// Record is one JSON document stored under a named collection.
// Data always carries the record id under the "id" key so that exported
// documents round-trip through the import tooling unchanged.
type Record struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
