package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// Outcome classifies what happened to one imported document.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeFailed  Outcome = "failed"
)

// Result reports the outcome of one document.
type Result struct {
	Collection string  `json:"collection"`
	ID         string  `json:"id"`
	Outcome    Outcome `json:"outcome"`
	Message    string  `json:"message,omitempty"`
}

// Summary aggregates an import run.
type Summary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// DefaultCollections is the set of collections a full legacy export carries.
var DefaultCollections = []string{
	"tqm_users",
	"tqm_records",
	"rd_machines",
	"rd_projects",
	"rd_tasks",
	"rd_changes",
	"rd_history",
	"rd_messages",
}

// legacyAliases maps pre-rename export keys onto current collection names.
var legacyAliases = map[string]string{
	"users":   "tqm_users",
	"records": "tqm_records",
}

// Importer replays a JSON export against the record API. Existing documents
// (detected via HTTP 409 on create) are updated in place.
type Importer struct {
	baseURL string
	client  *http.Client
}

// NewImporter constructs an Importer against the given API base URL,
// e.g. "http://localhost:3001". A nil client gets a sane default.
func NewImporter(baseURL string, client *http.Client) *Importer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Importer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// ImportFile reads a JSON export file of the shape
// {"collection": [doc, doc, ...], ...} and imports every document.
// Collections are processed in sorted key order so runs are reproducible.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}

	var export map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("parse export file: %w", err)
	}

	keys := make([]string, 0, len(export))
	for k := range export {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	summary := &Summary{}
	for _, key := range keys {
		collection := key
		if alias, ok := legacyAliases[key]; ok {
			collection = alias
		}
		for _, doc := range export[key] {
			res := im.importDoc(ctx, collection, doc)
			summary.add(res)
		}
	}
	return summary, nil
}

// ImportCollection imports a slice of documents into one collection.
func (im *Importer) ImportCollection(ctx context.Context, collection string, docs []json.RawMessage) *Summary {
	summary := &Summary{}
	for _, doc := range docs {
		summary.add(im.importDoc(ctx, collection, doc))
	}
	return summary
}

func (s *Summary) add(res Result) {
	switch res.Outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	default:
		s.Failed++
	}
	s.Results = append(s.Results, res)
}

// importDoc creates the document, falling back to an update when the id
// already exists on the server.
func (im *Importer) importDoc(ctx context.Context, collection string, doc json.RawMessage) Result {
	id := docID(doc)
	res := Result{Collection: collection, ID: id}

	status, err := im.send(ctx, http.MethodPost, fmt.Sprintf("%s/api/%s", im.baseURL, collection), doc)
	switch {
	case err != nil:
		res.Outcome = OutcomeFailed
		res.Message = err.Error()
		return res
	case status == http.StatusCreated || status == http.StatusOK:
		res.Outcome = OutcomeCreated
		return res
	case status != http.StatusConflict:
		res.Outcome = OutcomeFailed
		res.Message = fmt.Sprintf("create returned status %d", status)
		return res
	}

	// Conflict: the document exists. Without an id there is nothing to update.
	if id == "" {
		res.Outcome = OutcomeFailed
		res.Message = "conflict on document without id"
		return res
	}

	status, err = im.send(ctx, http.MethodPut, fmt.Sprintf("%s/api/%s/%s", im.baseURL, collection, id), doc)
	switch {
	case err != nil:
		res.Outcome = OutcomeFailed
		res.Message = err.Error()
	case status == http.StatusOK:
		res.Outcome = OutcomeUpdated
	default:
		res.Outcome = OutcomeFailed
		res.Message = fmt.Sprintf("update returned status %d", status)
	}
	return res
}

func (im *Importer) send(ctx context.Context, method, url string, body json.RawMessage) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := im.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func docID(doc json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(doc, &probe)
	return probe.ID
}
