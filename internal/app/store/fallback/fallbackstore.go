// internal/app/store/fallback/fallbackstore.go

// Package fallbackstore is the file-backed content backend: a single flat
// JSON document holding an ordered list of records, authoritative whenever
// the primary Mongo store is unreachable.
//
// Every operation loads the whole document, works on it in memory, and
// rewrites it as a unit. A mutex serializes the read-modify-write cycle so
// two concurrent mutations cannot clobber each other, and rewrites go
// through a temp file plus rename so a crash mid-write leaves the previous
// document intact.
//
// Documents written by earlier tooling may carry "_id" instead of "id" and
// "tab" instead of "category"; both are accepted on read and normalized.
package fallbackstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/domain/models"
)

// ErrNotFound is returned when no record matches the given ID.
var ErrNotFound = errors.New("content not found in fallback storage")

// Store reads and writes the fallback document.
type Store struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// document is the on-disk shape of one record. JSON field names match the
// legacy flat-file format, including the old aliases.
type document struct {
	ID       string `json:"id,omitempty"`
	LegacyID string `json:"_id,omitempty"`

	Semester int    `json:"semester"`
	Subject  string `json:"subject"`
	Category string `json:"category,omitempty"`
	// Tab is the pre-hierarchy name for Category.
	Tab string `json:"tab,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Size        string `json:"size"`

	FilePath         string `json:"filePath,omitempty"`
	OriginalFileName string `json:"originalFileName,omitempty"`
	FileURL          string `json:"fileUrl,omitempty"`

	Tags     []string `json:"tags,omitempty"`
	Priority string   `json:"priority,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *document) key() string {
	if d.ID != "" {
		return d.ID
	}
	return d.LegacyID
}

func (d *document) category() string {
	if d.Category != "" {
		return d.Category
	}
	return d.Tab
}

func (d *document) toRecord() models.ContentRecord {
	return models.ContentRecord{
		FallbackID:       d.key(),
		Semester:         d.Semester,
		Subject:          d.Subject,
		Category:         d.category(),
		Title:            d.Title,
		Description:      d.Description,
		Type:             d.Type,
		Size:             d.Size,
		FilePath:         d.FilePath,
		OriginalFileName: d.OriginalFileName,
		FileURL:          d.FileURL,
		Tags:             d.Tags,
		Priority:         d.Priority,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// New opens (or creates) the fallback document at path. A missing file is
// initialized to an empty list; the parent directory is created as needed.
func New(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{path: path, log: logger}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create fallback data dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(nil); err != nil {
			return nil, fmt.Errorf("initialize fallback data file: %w", err)
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the fallback document.
func (s *Store) Path() string {
	return s.path
}

// read loads the whole document. Callers must hold s.mu when the result
// feeds a rewrite.
func (s *Store) read() ([]document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fallback data file: %w", err)
	}
	var docs []document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse fallback data file: %w", err)
	}
	return docs, nil
}

// write rewrites the whole document through a temp file and rename.
func (s *Store) write(docs []document) error {
	if docs == nil {
		docs = []document{}
	}
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp-%s", s.path, uuid.NewString())
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write fallback data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace fallback data file: %w", err)
	}
	return nil
}

// List returns records matching the filter, sorted by semester asc,
// subject asc, category asc, then newest first within ties.
func (s *Store) List(ctx context.Context, f models.ContentFilter) ([]models.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	docs, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []models.ContentRecord
	for i := range docs {
		rec := docs[i].toRecord()
		if f.Matches(&rec) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// All returns every record in the document, unsorted. Used for the
// aggregate endpoints.
func (s *Store) All(ctx context.Context) ([]models.ContentRecord, error) {
	return s.List(ctx, models.ContentFilter{})
}

// Create appends a record, stamping a new timestamp-based identifier and
// timestamps, and rewrites the document.
func (s *Store) Create(ctx context.Context, c models.ContentRecord) (models.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.ContentRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read()
	if err != nil {
		return models.ContentRecord{}, err
	}

	now := time.Now().UTC()
	c.ID = primitive.NilObjectID
	c.FallbackID = nextID(docs, now)
	if c.Priority == "" {
		c.Priority = models.DefaultPriority
	}
	if c.Size == "" {
		c.Size = models.UnknownSize
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	docs = append(docs, document{
		ID:               c.FallbackID,
		Semester:         c.Semester,
		Subject:          c.Subject,
		Category:         c.Category,
		Title:            c.Title,
		Description:      c.Description,
		Type:             c.Type,
		Size:             c.Size,
		FilePath:         c.FilePath,
		OriginalFileName: c.OriginalFileName,
		FileURL:          c.FileURL,
		Tags:             c.Tags,
		Priority:         c.Priority,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	})

	if err := s.write(docs); err != nil {
		return models.ContentRecord{}, err
	}
	return c, nil
}

// Delete splices out the record whose ID (current or legacy field) matches
// and rewrites the document. Returns ErrNotFound when nothing matches.
func (s *Store) Delete(ctx context.Context, id string) (models.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.ContentRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read()
	if err != nil {
		return models.ContentRecord{}, err
	}

	idx := -1
	for i := range docs {
		if docs[i].ID == id || docs[i].LegacyID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.ContentRecord{}, ErrNotFound
	}

	deleted := docs[idx].toRecord()
	docs = append(docs[:idx], docs[idx+1:]...)

	if err := s.write(docs); err != nil {
		return models.ContentRecord{}, err
	}
	return deleted, nil
}

// nextID produces a unique timestamp-based identifier. Millisecond
// collisions within one document are rare but possible, so the value bumps
// until free.
func nextID(docs []document, now time.Time) string {
	taken := make(map[string]struct{}, len(docs))
	for i := range docs {
		taken[docs[i].key()] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}

func sortRecords(records []models.ContentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		if a.Semester != b.Semester {
			return a.Semester < b.Semester
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
