package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/store/content"
	"github.com/dalemusser/eduhub/internal/app/store/fallback"
	"github.com/dalemusser/eduhub/internal/domain/models"
	"github.com/dalemusser/eduhub/internal/testutil"
)

var errDown = errors.New("server selection timeout")

// stubPrimary simulates the MongoDB store. When down is set every call
// fails the way the driver does when the server is unreachable.
type stubPrimary struct {
	down    bool
	records []models.ContentRecord
	deleted []primitive.ObjectID
}

func (s *stubPrimary) Create(ctx context.Context, c models.ContentRecord) (models.ContentRecord, error) {
	if c.Priority == "" {
		c.Priority = models.DefaultPriority
	}
	if err := contentstore.Validate(&c); err != nil {
		return models.ContentRecord{}, err
	}
	if s.down {
		return models.ContentRecord{}, errDown
	}
	c.ID = primitive.NewObjectID()
	s.records = append(s.records, c)
	return c, nil
}

func (s *stubPrimary) List(ctx context.Context, f models.ContentFilter) ([]models.ContentRecord, error) {
	if s.down {
		return nil, errDown
	}
	var out []models.ContentRecord
	for i := range s.records {
		if f.Matches(&s.records[i]) {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

func (s *stubPrimary) Update(ctx context.Context, id primitive.ObjectID, mut contentstore.UpdateFields) (models.ContentRecord, error) {
	if s.down {
		return models.ContentRecord{}, errDown
	}
	for i := range s.records {
		if s.records[i].ID == id {
			if mut.Title != nil {
				s.records[i].Title = *mut.Title
			}
			return s.records[i], nil
		}
	}
	return models.ContentRecord{}, contentstore.ErrNotFound
}

func (s *stubPrimary) Delete(ctx context.Context, id primitive.ObjectID) (models.ContentRecord, error) {
	if s.down {
		return models.ContentRecord{}, errDown
	}
	for i := range s.records {
		if s.records[i].ID == id {
			deleted := s.records[i]
			s.records = append(s.records[:i], s.records[i+1:]...)
			s.deleted = append(s.deleted, id)
			return deleted, nil
		}
	}
	return models.ContentRecord{}, contentstore.ErrNotFound
}

func (s *stubPrimary) Stats(ctx context.Context) (models.Stats, error) {
	if s.down {
		return models.Stats{}, errDown
	}
	return statsFromRecords(s.records), nil
}

func (s *stubPrimary) Structure(ctx context.Context) (models.Structure, error) {
	if s.down {
		return nil, errDown
	}
	return structureFromRecords(s.records), nil
}

func (s *stubPrimary) Subjects(ctx context.Context, semester int) ([]string, error) {
	if s.down {
		return nil, errDown
	}
	return distinct(s.records, func(c *models.ContentRecord) (string, bool) {
		return c.Subject, c.Semester == semester
	}), nil
}

func (s *stubPrimary) Categories(ctx context.Context, semester int, subject string) ([]string, error) {
	if s.down {
		return nil, errDown
	}
	return distinct(s.records, func(c *models.ContentRecord) (string, bool) {
		return c.Category, c.Semester == semester && c.Subject == subject
	}), nil
}

func newFacade(t *testing.T, primary *stubPrimary) (*Facade, *fallbackstore.Store) {
	t.Helper()
	fb := testutil.TempFallbackStore(t)
	return New(primary, fb, nil, zap.NewNop()), fb
}

func sample(semester int, subject, category, title string) models.ContentRecord {
	return testutil.ContentRecord(semester, subject, category, title)
}

func TestList_PrimaryServes(t *testing.T) {
	primary := &stubPrimary{}
	facade, _ := newFacade(t, primary)
	ctx := context.Background()

	if _, _, err := facade.Create(ctx, sample(1, "Math", models.CategorySyllabus, "Syllabus")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	recs, source, err := facade.List(ctx, models.ContentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if source != SourcePrimary {
		t.Errorf("source: got %q, want %q", source, SourcePrimary)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record, got %d", len(recs))
	}
}

func TestList_FallsBackWhenPrimaryDown(t *testing.T) {
	primary := &stubPrimary{down: true}
	facade, fb := newFacade(t, primary)
	ctx := context.Background()

	if _, err := fb.Create(ctx, sample(1, "Math", models.CategorySyllabus, "Syllabus")); err != nil {
		t.Fatalf("seeding fallback: %v", err)
	}

	recs, source, err := facade.List(ctx, models.ContentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if source != SourceFallback {
		t.Errorf("source: got %q, want %q", source, SourceFallback)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record from fallback, got %d", len(recs))
	}
}

func TestList_FallsBackWhenPrimaryEmpty(t *testing.T) {
	primary := &stubPrimary{}
	facade, fb := newFacade(t, primary)
	ctx := context.Background()

	if _, err := fb.Create(ctx, sample(2, "Physics", models.CategoryResources, "Optics")); err != nil {
		t.Fatalf("seeding fallback: %v", err)
	}

	recs, source, err := facade.List(ctx, models.ContentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if source != SourceFallback {
		t.Errorf("source: got %q, want %q", source, SourceFallback)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record, got %d", len(recs))
	}
}

func TestList_BothEmpty(t *testing.T) {
	facade, _ := newFacade(t, &stubPrimary{})

	recs, source, err := facade.List(context.Background(), models.ContentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if source != SourcePrimary {
		t.Errorf("source: got %q, want %q", source, SourcePrimary)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

func TestCreate_FallsBackWhenPrimaryDown(t *testing.T) {
	primary := &stubPrimary{down: true}
	facade, fb := newFacade(t, primary)
	ctx := context.Background()

	created, source, err := facade.Create(ctx, sample(3, "DBMS", models.CategoryAssignments, "ER Diagrams"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if source != SourceFallback {
		t.Errorf("source: got %q, want %q", source, SourceFallback)
	}
	if created.FallbackID == "" {
		t.Error("expected a fallback ID")
	}

	all, err := fb.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected record persisted to fallback file, got %d", len(all))
	}
}

func TestCreate_ValidationDoesNotFallBack(t *testing.T) {
	primary := &stubPrimary{down: true}
	facade, fb := newFacade(t, primary)
	ctx := context.Background()

	bad := sample(0, "Math", models.CategorySyllabus, "Syllabus") // semester out of range
	if _, _, err := facade.Create(ctx, bad); !errors.Is(err, contentstore.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}

	all, err := fb.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("invalid record must not land in fallback store, found %d", len(all))
	}
}

func TestUpdate_FallbackIDNotFound(t *testing.T) {
	facade, fb := newFacade(t, &stubPrimary{})
	ctx := context.Background()

	created, err := fb.Create(ctx, sample(1, "Math", models.CategorySyllabus, "Syllabus"))
	if err != nil {
		t.Fatalf("seeding fallback: %v", err)
	}

	title := "New title"
	_, err = facade.Update(ctx, created.FallbackID, contentstore.UpdateFields{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdate_Primary(t *testing.T) {
	primary := &stubPrimary{}
	facade, _ := newFacade(t, primary)
	ctx := context.Background()

	created, _, err := facade.Create(ctx, sample(1, "Math", models.CategorySyllabus, "Old"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	title := "New"
	updated, err := facade.Update(ctx, created.ID.Hex(), contentstore.UpdateFields{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "New" {
		t.Errorf("title: got %q, want %q", updated.Title, "New")
	}
}

func TestDelete_RoutesByIDShape(t *testing.T) {
	primary := &stubPrimary{}
	facade, fb := newFacade(t, primary)
	ctx := context.Background()

	inPrimary, _, err := facade.Create(ctx, sample(1, "Math", models.CategorySyllabus, "From primary"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	inFallback, err := fb.Create(ctx, sample(2, "Physics", models.CategoryPYQs, "From fallback"))
	if err != nil {
		t.Fatalf("seeding fallback: %v", err)
	}

	deleted, source, err := facade.Delete(ctx, inPrimary.ID.Hex())
	if err != nil {
		t.Fatalf("Delete primary failed: %v", err)
	}
	if source != SourcePrimary || deleted.Title != "From primary" {
		t.Errorf("got source %q title %q", source, deleted.Title)
	}

	deleted, source, err = facade.Delete(ctx, inFallback.FallbackID)
	if err != nil {
		t.Fatalf("Delete fallback failed: %v", err)
	}
	if source != SourceFallback || deleted.Title != "From fallback" {
		t.Errorf("got source %q title %q", source, deleted.Title)
	}

	if _, _, err := facade.Delete(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStats_FallbackComputation(t *testing.T) {
	primary := &stubPrimary{down: true}
	facade, fb := newFacade(t, primary)
	ctx := context.Background()

	seed := []models.ContentRecord{
		sample(1, "Math", models.CategorySyllabus, "a"),
		sample(1, "Math", models.CategoryAssignments, "b"),
		sample(2, "Physics", models.CategorySyllabus, "c"),
	}
	for _, c := range seed {
		if _, err := fb.Create(ctx, c); err != nil {
			t.Fatalf("seeding fallback: %v", err)
		}
	}

	stats, source, err := facade.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if source != SourceFallback {
		t.Errorf("source: got %q, want %q", source, SourceFallback)
	}
	if stats.TotalContent != 3 {
		t.Errorf("total: got %d, want 3", stats.TotalContent)
	}
	if len(stats.ContentByCategory) != 2 {
		t.Errorf("categories: got %d buckets, want 2", len(stats.ContentByCategory))
	}
	if len(stats.ContentBySemester) != 2 {
		t.Errorf("semesters: got %d buckets, want 2", len(stats.ContentBySemester))
	}
	if len(stats.ContentBySubject) != 2 {
		t.Errorf("subjects: got %d buckets, want 2", len(stats.ContentBySubject))
	}
}

func TestStructureAndBrowse_Fallback(t *testing.T) {
	primary := &stubPrimary{down: true}
	facade, fb := newFacade(t, primary)
	ctx := context.Background()

	seed := []models.ContentRecord{
		sample(1, "Math", models.CategorySyllabus, "a"),
		sample(1, "Math", models.CategoryAssignments, "b"),
		sample(1, "Biology", models.CategorySyllabus, "c"),
	}
	for _, c := range seed {
		if _, err := fb.Create(ctx, c); err != nil {
			t.Fatalf("seeding fallback: %v", err)
		}
	}

	tree, source, err := facade.Structure(ctx)
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if source != SourceFallback {
		t.Errorf("source: got %q, want %q", source, SourceFallback)
	}
	if tree[1]["Math"][models.CategorySyllabus] != 1 {
		t.Errorf("unexpected tree: %#v", tree)
	}

	subjects, _, err := facade.Subjects(ctx, 1)
	if err != nil {
		t.Fatalf("Subjects failed: %v", err)
	}
	if len(subjects) != 2 || subjects[0] != "Biology" || subjects[1] != "Math" {
		t.Errorf("subjects: got %v", subjects)
	}

	cats, _, err := facade.Categories(ctx, 1, "Math")
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(cats) != 2 {
		t.Errorf("categories: got %v", cats)
	}
}

func localStorage(t *testing.T) (*storage.Local, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocal(storage.LocalConfig{BasePath: dir, BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	return local, dir
}

func TestDelete_RemovesStoredFile(t *testing.T) {
	primary := &stubPrimary{down: true}
	fb := testutil.TempFallbackStore(t)
	local, dir := localStorage(t)
	facade := New(primary, fb, local, zap.NewNop())
	ctx := context.Background()

	name := "file-1700000000000-42.pdf"
	if err := local.Put(ctx, name, strings.NewReader("%PDF-1.4"), &storage.PutOptions{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("seeding stored file: %v", err)
	}

	rec := sample(2, "Physics", models.CategoryTeacherNotes, "Optics")
	rec.FilePath = name
	created, _, err := facade.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := facade.Delete(ctx, created.Key()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stored file still on disk: stat err = %v", err)
	}
}

func TestDelete_MissingStoredFileDoesNotFailDelete(t *testing.T) {
	primary := &stubPrimary{down: true}
	fb := testutil.TempFallbackStore(t)
	local, _ := localStorage(t)
	facade := New(primary, fb, local, zap.NewNop())
	ctx := context.Background()

	// The record points at a file that was already removed from disk.
	rec := sample(2, "Physics", models.CategoryTeacherNotes, "Optics")
	rec.FilePath = "file-gone.pdf"
	created, _, err := facade.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := facade.Delete(ctx, created.Key()); err != nil {
		t.Fatalf("Delete must succeed despite the missing file: %v", err)
	}
	if _, _, err := facade.Delete(ctx, created.Key()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
