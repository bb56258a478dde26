// internal/domain/models/query.go
package models

// ContentFilter narrows a catalog query by zero or more hierarchy levels.
// Nil/empty fields are not applied.
type ContentFilter struct {
	Semester *int
	Subject  string
	Category string
}

// Matches reports whether a record satisfies the filter. Used by the
// fallback store's in-memory filtering; the primary store translates the
// filter to a query instead.
func (f ContentFilter) Matches(c *ContentRecord) bool {
	if f.Semester != nil && c.Semester != *f.Semester {
		return false
	}
	if f.Subject != "" && c.Subject != f.Subject {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	return true
}

// CategoryCount is one bucket of the per-category aggregation.
type CategoryCount struct {
	Category string `bson:"_id" json:"_id"`
	Count    int64  `bson:"count" json:"count"`
}

// SemesterCount is one bucket of the per-semester aggregation.
type SemesterCount struct {
	Semester int   `bson:"_id" json:"_id"`
	Count    int64 `bson:"count" json:"count"`
}

// SubjectKey identifies a (semester, subject) pair.
type SubjectKey struct {
	Semester int    `bson:"semester" json:"semester"`
	Subject  string `bson:"subject" json:"subject"`
}

// SubjectCount is one bucket of the per-subject aggregation.
type SubjectCount struct {
	Key   SubjectKey `bson:"_id" json:"_id"`
	Count int64      `bson:"count" json:"count"`
}

// Stats aggregates catalog counts for the /api/stats endpoint.
type Stats struct {
	TotalContent      int64           `json:"totalContent"`
	ContentByCategory []CategoryCount `json:"contentByCategory"`
	ContentBySemester []SemesterCount `json:"contentBySemester"`
	ContentBySubject  []SubjectCount  `json:"contentBySubject"`
}

// Structure is the nested semester → subject → category → count map served
// by /api/structure.
type Structure map[int]map[string]map[string]int64
