package testutil

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	fallbackstore "github.com/dalemusser/eduhub/internal/app/store/fallback"
	"github.com/dalemusser/eduhub/internal/domain/models"
)

// TempFallbackStore builds a fallback store backed by a file in a
// test-scoped temp directory.
func TempFallbackStore(t *testing.T) *fallbackstore.Store {
	t.Helper()
	s, err := fallbackstore.New(filepath.Join(t.TempDir(), "content-data.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create fallback store: %v", err)
	}
	return s
}

// ContentRecord returns a valid record for the given hierarchy slot.
// Tests mutate the returned value to produce invalid variants.
func ContentRecord(semester int, subject, category, title string) models.ContentRecord {
	return models.ContentRecord{
		Semester:    semester,
		Subject:     subject,
		Category:    category,
		Title:       title,
		Description: "Test description for " + title,
		Type:        "PDF",
		Size:        "1 MB",
		Tags:        []string{"test"},
		Priority:    models.DefaultPriority,
	}
}
