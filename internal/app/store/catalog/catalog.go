// Package catalog fronts the two content backends: the MongoDB store and
// the flat-file fallback store. Reads and writes go to MongoDB first and
// degrade to the JSON file when the database is unreachable, so browsing
// keeps working through an outage.
package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/store/content"
	"github.com/dalemusser/eduhub/internal/app/store/fallback"
	"github.com/dalemusser/eduhub/internal/domain/models"
)

// Source values reported alongside query results so clients can tell
// which backend served them.
const (
	SourcePrimary  = "mongodb"
	SourceFallback = "json"
)

// ErrNotFound is returned when neither backend holds the requested record.
var ErrNotFound = errors.New("content not found")

// Primary is the MongoDB-backed content store.
type Primary interface {
	Create(ctx context.Context, c models.ContentRecord) (models.ContentRecord, error)
	List(ctx context.Context, f models.ContentFilter) ([]models.ContentRecord, error)
	Update(ctx context.Context, id primitive.ObjectID, mut contentstore.UpdateFields) (models.ContentRecord, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.ContentRecord, error)
	Stats(ctx context.Context) (models.Stats, error)
	Structure(ctx context.Context) (models.Structure, error)
	Subjects(ctx context.Context, semester int) ([]string, error)
	Categories(ctx context.Context, semester int, subject string) ([]string, error)
}

// Fallback is the JSON-file content store.
type Fallback interface {
	List(ctx context.Context, f models.ContentFilter) ([]models.ContentRecord, error)
	All(ctx context.Context) ([]models.ContentRecord, error)
	Create(ctx context.Context, c models.ContentRecord) (models.ContentRecord, error)
	Delete(ctx context.Context, id string) (models.ContentRecord, error)
}

type Facade struct {
	primary  Primary
	fallback Fallback
	files    storage.Store
	log      *zap.Logger
}

func New(primary Primary, fb Fallback, files storage.Store, logger *zap.Logger) *Facade {
	return &Facade{primary: primary, fallback: fb, files: files, log: logger}
}

// List queries the primary store and falls back to the JSON file when the
// query fails or comes back empty. The returned source names the backend
// that produced the result.
func (f *Facade) List(ctx context.Context, filter models.ContentFilter) ([]models.ContentRecord, string, error) {
	recs, err := f.primary.List(ctx, filter)
	if err != nil {
		f.log.Warn("primary list failed, using fallback store", zap.Error(err))
		recs, fbErr := f.fallback.List(ctx, filter)
		if fbErr != nil {
			return nil, "", fbErr
		}
		return recs, SourceFallback, nil
	}
	if len(recs) == 0 {
		fbRecs, fbErr := f.fallback.List(ctx, filter)
		if fbErr == nil && len(fbRecs) > 0 {
			return fbRecs, SourceFallback, nil
		}
	}
	return recs, SourcePrimary, nil
}

// Create writes to the primary store, degrading to the fallback file when
// the database is unavailable. Validation failures never trigger the
// fallback: a bad record is bad in either backend.
func (f *Facade) Create(ctx context.Context, c models.ContentRecord) (models.ContentRecord, string, error) {
	created, err := f.primary.Create(ctx, c)
	if err == nil {
		return created, SourcePrimary, nil
	}
	if errors.Is(err, contentstore.ErrValidation) {
		return models.ContentRecord{}, "", err
	}

	f.log.Warn("primary create failed, using fallback store", zap.Error(err))
	created, fbErr := f.fallback.Create(ctx, c)
	if fbErr != nil {
		return models.ContentRecord{}, "", fbErr
	}
	return created, SourceFallback, nil
}

// Update only operates on the primary store. Fallback records carry
// timestamp IDs rather than ObjectIDs and are treated as not found.
func (f *Facade) Update(ctx context.Context, id string, mut contentstore.UpdateFields) (models.ContentRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ContentRecord{}, ErrNotFound
	}
	updated, err := f.primary.Update(ctx, oid, mut)
	if err != nil {
		if errors.Is(err, contentstore.ErrNotFound) {
			return models.ContentRecord{}, ErrNotFound
		}
		return models.ContentRecord{}, err
	}
	return updated, nil
}

// Delete removes a record from whichever backend holds it. ObjectID-shaped
// IDs are tried against the primary store first; anything else goes
// straight to the fallback file. The stored file, if any, is removed on a
// best-effort basis.
func (f *Facade) Delete(ctx context.Context, id string) (models.ContentRecord, string, error) {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		deleted, err := f.primary.Delete(ctx, oid)
		if err == nil {
			f.removeFile(ctx, &deleted)
			return deleted, SourcePrimary, nil
		}
		if !errors.Is(err, contentstore.ErrNotFound) {
			f.log.Warn("primary delete failed, checking fallback store", zap.Error(err))
		}
	}

	deleted, err := f.fallback.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, fallbackstore.ErrNotFound) {
			return models.ContentRecord{}, "", ErrNotFound
		}
		return models.ContentRecord{}, "", err
	}
	f.removeFile(ctx, &deleted)
	return deleted, SourceFallback, nil
}

func (f *Facade) removeFile(ctx context.Context, c *models.ContentRecord) {
	if f.files == nil || c.FilePath == "" {
		return
	}
	if err := f.files.Delete(ctx, c.FilePath); err != nil {
		f.log.Warn("could not remove stored file",
			zap.String("path", c.FilePath), zap.Error(err))
	}
}

// Stats aggregates content counts, computing them in memory from the
// fallback file when the primary store is down.
func (f *Facade) Stats(ctx context.Context) (models.Stats, string, error) {
	stats, err := f.primary.Stats(ctx)
	if err == nil {
		return stats, SourcePrimary, nil
	}
	f.log.Warn("primary stats failed, using fallback store", zap.Error(err))

	recs, fbErr := f.fallback.All(ctx)
	if fbErr != nil {
		return models.Stats{}, "", fbErr
	}
	return statsFromRecords(recs), SourceFallback, nil
}

// Structure reports the semester/subject/category tree with record counts.
func (f *Facade) Structure(ctx context.Context) (models.Structure, string, error) {
	tree, err := f.primary.Structure(ctx)
	if err == nil {
		return tree, SourcePrimary, nil
	}
	f.log.Warn("primary structure failed, using fallback store", zap.Error(err))

	recs, fbErr := f.fallback.All(ctx)
	if fbErr != nil {
		return nil, "", fbErr
	}
	return structureFromRecords(recs), SourceFallback, nil
}

// Subjects lists the distinct subjects within a semester.
func (f *Facade) Subjects(ctx context.Context, semester int) ([]string, string, error) {
	subjects, err := f.primary.Subjects(ctx, semester)
	if err == nil {
		return subjects, SourcePrimary, nil
	}
	f.log.Warn("primary subjects failed, using fallback store", zap.Error(err))

	recs, fbErr := f.fallback.All(ctx)
	if fbErr != nil {
		return nil, "", fbErr
	}
	return distinct(recs, func(c *models.ContentRecord) (string, bool) {
		return c.Subject, c.Semester == semester
	}), SourceFallback, nil
}

// Categories lists the distinct categories under a semester/subject pair.
func (f *Facade) Categories(ctx context.Context, semester int, subject string) ([]string, string, error) {
	cats, err := f.primary.Categories(ctx, semester, subject)
	if err == nil {
		return cats, SourcePrimary, nil
	}
	f.log.Warn("primary categories failed, using fallback store", zap.Error(err))

	recs, fbErr := f.fallback.All(ctx)
	if fbErr != nil {
		return nil, "", fbErr
	}
	return distinct(recs, func(c *models.ContentRecord) (string, bool) {
		return c.Category, c.Semester == semester && c.Subject == subject
	}), SourceFallback, nil
}

func statsFromRecords(recs []models.ContentRecord) models.Stats {
	stats := models.Stats{
		TotalContent:      int64(len(recs)),
		ContentByCategory: []models.CategoryCount{},
		ContentBySemester: []models.SemesterCount{},
		ContentBySubject:  []models.SubjectCount{},
	}

	byCategory := map[string]int64{}
	bySemester := map[int]int64{}
	bySubject := map[models.SubjectKey]int64{}
	for i := range recs {
		byCategory[recs[i].Category]++
		bySemester[recs[i].Semester]++
		bySubject[models.SubjectKey{Semester: recs[i].Semester, Subject: recs[i].Subject}]++
	}

	for cat, n := range byCategory {
		stats.ContentByCategory = append(stats.ContentByCategory, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(stats.ContentByCategory, func(i, j int) bool {
		return stats.ContentByCategory[i].Category < stats.ContentByCategory[j].Category
	})

	for sem, n := range bySemester {
		stats.ContentBySemester = append(stats.ContentBySemester, models.SemesterCount{Semester: sem, Count: n})
	}
	sort.Slice(stats.ContentBySemester, func(i, j int) bool {
		return stats.ContentBySemester[i].Semester < stats.ContentBySemester[j].Semester
	})

	for key, n := range bySubject {
		stats.ContentBySubject = append(stats.ContentBySubject, models.SubjectCount{Key: key, Count: n})
	}
	sort.Slice(stats.ContentBySubject, func(i, j int) bool {
		a, b := stats.ContentBySubject[i].Key, stats.ContentBySubject[j].Key
		if a.Semester != b.Semester {
			return a.Semester < b.Semester
		}
		return a.Subject < b.Subject
	})

	return stats
}

func structureFromRecords(recs []models.ContentRecord) models.Structure {
	tree := models.Structure{}
	for i := range recs {
		c := &recs[i]
		if tree[c.Semester] == nil {
			tree[c.Semester] = map[string]map[string]int64{}
		}
		if tree[c.Semester][c.Subject] == nil {
			tree[c.Semester][c.Subject] = map[string]int64{}
		}
		tree[c.Semester][c.Subject][c.Category]++
	}
	return tree
}

func distinct(recs []models.ContentRecord, pick func(*models.ContentRecord) (string, bool)) []string {
	seen := map[string]bool{}
	var out []string
	for i := range recs {
		if v, ok := pick(&recs[i]); ok && v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
