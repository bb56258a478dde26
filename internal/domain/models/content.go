// internal/domain/models/content.go
package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentRecord is one catalog entry (notes, an assignment, a past paper)
// placed in the semester > subject > category hierarchy.
//
// Records live in one of two backends. The primary Mongo store assigns the
// ObjectID in ID; the file-backed fallback store assigns a timestamp string
// in FallbackID instead. Key() returns whichever is set, and callers must
// treat the result as an opaque string — the two formats are never
// interchangeable.
type ContentRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty"`

	// FallbackID is set only on records owned by the fallback store.
	FallbackID string `bson:"-"`

	Semester int    `bson:"semester"`
	Subject  string `bson:"subject"`
	// SubjectCI is the folded form of Subject for case-insensitive matching.
	SubjectCI string `bson:"subject_ci,omitempty"`
	Category  string `bson:"category"`

	Title       string `bson:"title"`
	Description string `bson:"description"`

	// Type describes the content kind (e.g. "PDF"). Derived from the file
	// extension when a file is attached, otherwise caller-supplied.
	Type string `bson:"type"`
	// Size is a human-readable string like "2.50 MB".
	Size string `bson:"size"`

	// File fields are set only when a file was uploaded with the record.
	FilePath         string `bson:"file_path,omitempty"`
	OriginalFileName string `bson:"original_file_name,omitempty"`
	FileURL          string `bson:"file_url,omitempty"`

	Tags     []string `bson:"tags,omitempty"`
	Priority string   `bson:"priority"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Key returns the record's identifier as an opaque string: the ObjectID hex
// for primary-store records, the timestamp string for fallback records.
func (c *ContentRecord) Key() string {
	if !c.ID.IsZero() {
		return c.ID.Hex()
	}
	return c.FallbackID
}

// HasFile reports whether the record has an uploaded file on disk.
func (c *ContentRecord) HasFile() bool {
	return c.FilePath != ""
}

// MarshalJSON emits one normalized shape regardless of which backend the
// record came from: "id" always carries Key().
func (c ContentRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID               string    `json:"id"`
		Semester         int       `json:"semester"`
		Subject          string    `json:"subject"`
		Category         string    `json:"category"`
		Title            string    `json:"title"`
		Description      string    `json:"description"`
		Type             string    `json:"type"`
		Size             string    `json:"size"`
		FilePath         string    `json:"filePath,omitempty"`
		OriginalFileName string    `json:"originalFileName,omitempty"`
		FileURL          string    `json:"fileUrl,omitempty"`
		Tags             []string  `json:"tags,omitempty"`
		Priority         string    `json:"priority"`
		CreatedAt        time.Time `json:"createdAt"`
		UpdatedAt        time.Time `json:"updatedAt"`
	}{
		ID:               c.Key(),
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
}

// UnknownSize is stored when no file is attached and the caller supplied
// no size of their own.
const UnknownSize = "Unknown size"
