// internal/domain/models/categories.go
package models

// Canonical category identifiers.
//
// These values are stored in the database in the ContentRecord.Category
// field and drive the semester > subject > category hierarchy. Legacy
// fallback documents may carry the same values under a "tab" field; the
// fallback store handles that aliasing.
const (
	CategoryTeacherNotes = "teacher-notes"
	CategoryStudentNotes = "student-notes"
	CategoryResources    = "resources"
	CategoryAssignments  = "assignments"
	CategoryPYQs         = "pyqs"
	CategorySyllabus     = "syllabus"
)

// Categories is the full set of allowed category identifiers.
//
// This slice should be treated as the single source of truth for validation
// and schema enums. Any new category must be added here to be considered
// valid.
var Categories = []string{
	CategoryTeacherNotes,
	CategoryStudentNotes,
	CategoryResources,
	CategoryAssignments,
	CategoryPYQs,
	CategorySyllabus,
}

// IsValidCategory reports whether c is one of the allowed categories.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Priority levels for a ContentRecord.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultPriority is used when no priority is provided.
const DefaultPriority = PriorityMedium

// IsValidPriority reports whether p is one of the allowed priorities.
func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Semester bounds for the hierarchy.
const (
	MinSemester = 1
	MaxSemester = 8
)

// IsValidSemester reports whether s falls in the supported range.
func IsValidSemester(s int) bool {
	return s >= MinSemester && s <= MaxSemester
}
