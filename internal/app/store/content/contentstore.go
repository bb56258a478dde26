// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/eduhub/internal/domain/models"
)

// Store is the primary content backend: one Mongo collection with compound
// indexes supporting the semester > subject > category hierarchy.
type Store struct {
	c *mongo.Collection
}

// ErrNotFound is returned when no record matches the given ID.
var ErrNotFound = errors.New("content not found")

// ErrValidation marks schema-level rejections (bad semester, unknown
// category, missing required fields). The facade never falls back on these;
// a record the primary store rejects is rejected everywhere.
var ErrValidation = errors.New("validation failed")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contents")}
}

// Validate enforces the schema the way the collection's original document
// validator did.
func Validate(c *models.ContentRecord) error {
	if !models.IsValidSemester(c.Semester) {
		return fmt.Errorf("%w: semester must be between %d and %d", ErrValidation, models.MinSemester, models.MaxSemester)
	}
	if strings.TrimSpace(c.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if !models.IsValidCategory(c.Category) {
		return fmt.Errorf("%w: category must be one of %s", ErrValidation, strings.Join(models.Categories, ", "))
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(c.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !models.IsValidPriority(c.Priority) {
		return fmt.Errorf("%w: priority must be low, medium, or high", ErrValidation)
	}
	return nil
}

// Create inserts a new ContentRecord, assigning its ObjectID, folding the
// subject for case-insensitive lookups, and stamping timestamps.
func (s *Store) Create(ctx context.Context, c models.ContentRecord) (models.ContentRecord, error) {
	now := time.Now().UTC()

	c.ID = primitive.NewObjectID()
	c.FallbackID = ""
	c.Subject = strings.TrimSpace(c.Subject)
	c.SubjectCI = text.Fold(c.Subject)
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	if c.Priority == "" {
		c.Priority = models.DefaultPriority
	}
	if c.Size == "" {
		c.Size = models.UnknownSize
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := Validate(&c); err != nil {
		return models.ContentRecord{}, err
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.ContentRecord{}, err
	}
	return c, nil
}

// List returns records matching the filter, sorted by semester asc,
// subject asc, category asc, then newest first within ties.
func (s *Store) List(ctx context.Context, f models.ContentFilter) ([]models.ContentRecord, error) {
	query := bson.M{}
	if f.Semester != nil {
		query["semester"] = *f.Semester
	}
	if f.Subject != "" {
		query["subject"] = f.Subject
	}
	if f.Category != "" {
		query["category"] = f.Category
	}

	sort := bson.D{
		{Key: "semester", Value: 1},
		{Key: "subject", Value: 1},
		{Key: "category", Value: 1},
		{Key: "created_at", Value: -1},
	}

	cur, err := s.c.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ContentRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields carries the partial update applied by PUT. Nil pointers
// leave the stored value untouched.
type UpdateFields struct {
	Semester    *int
	Subject     *string
	Category    *string
	Title       *string
	Description *string
	Type        *string
	Size        *string
	Priority    *string
	Tags        *[]string
}

// Update applies a partial field replacement and refreshes updated_at,
// returning the record as stored afterwards. Returns ErrNotFound when no
// record has the given ID.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut UpdateFields) (models.ContentRecord, error) {
	set := bson.M{}

	if mut.Semester != nil {
		if !models.IsValidSemester(*mut.Semester) {
			return models.ContentRecord{}, fmt.Errorf("%w: semester must be between %d and %d", ErrValidation, models.MinSemester, models.MaxSemester)
		}
		set["semester"] = *mut.Semester
	}
	if mut.Subject != nil {
		subject := strings.TrimSpace(*mut.Subject)
		if subject == "" {
			return models.ContentRecord{}, fmt.Errorf("%w: subject is required", ErrValidation)
		}
		set["subject"] = subject
		set["subject_ci"] = text.Fold(subject)
	}
	if mut.Category != nil {
		if !models.IsValidCategory(*mut.Category) {
			return models.ContentRecord{}, fmt.Errorf("%w: category must be one of %s", ErrValidation, strings.Join(models.Categories, ", "))
		}
		set["category"] = *mut.Category
	}
	if mut.Title != nil {
		title := strings.TrimSpace(*mut.Title)
		if title == "" {
			return models.ContentRecord{}, fmt.Errorf("%w: title is required", ErrValidation)
		}
		set["title"] = title
	}
	if mut.Description != nil {
		desc := strings.TrimSpace(*mut.Description)
		if desc == "" {
			return models.ContentRecord{}, fmt.Errorf("%w: description is required", ErrValidation)
		}
		set["description"] = desc
	}
	if mut.Type != nil {
		set["type"] = strings.TrimSpace(*mut.Type)
	}
	if mut.Size != nil {
		set["size"] = strings.TrimSpace(*mut.Size)
	}
	if mut.Priority != nil {
		if !models.IsValidPriority(*mut.Priority) {
			return models.ContentRecord{}, fmt.Errorf("%w: priority must be low, medium, or high", ErrValidation)
		}
		set["priority"] = *mut.Priority
	}
	if mut.Tags != nil {
		set["tags"] = *mut.Tags
	}

	set["updated_at"] = time.Now().UTC()

	var updated models.ContentRecord
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ContentRecord{}, ErrNotFound
		}
		return models.ContentRecord{}, err
	}
	return updated, nil
}

// Delete removes a record by ID and returns it. Returns ErrNotFound when
// no record has the given ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.ContentRecord, error) {
	var deleted models.ContentRecord
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ContentRecord{}, ErrNotFound
		}
		return models.ContentRecord{}, err
	}
	return deleted, nil
}

// Stats returns the total record count plus per-category, per-semester,
// and per-(semester,subject) aggregation buckets.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Stats{}, err
	}

	stats := models.Stats{TotalContent: total}

	group := func(id any, out any) error {
		cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$group", Value: bson.M{"_id": id, "count": bson.M{"$sum": 1}}}},
		})
		if err != nil {
			return err
		}
		defer cur.Close(ctx)
		return cur.All(ctx, out)
	}

	if err := group("$category", &stats.ContentByCategory); err != nil {
		return models.Stats{}, err
	}
	if err := group("$semester", &stats.ContentBySemester); err != nil {
		return models.Stats{}, err
	}
	if err := group(bson.M{"semester": "$semester", "subject": "$subject"}, &stats.ContentBySubject); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// Structure builds the nested semester → subject → category → count map.
func (s *Store) Structure(ctx context.Context) (models.Structure, error) {
	// One aggregation pass instead of the N+1 distinct/count round trips
	// the endpoint's shape might suggest.
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"semester": "$semester",
				"subject":  "$subject",
				"category": "$category",
			},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var buckets []struct {
		Key struct {
			Semester int    `bson:"semester"`
			Subject  string `bson:"subject"`
			Category string `bson:"category"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &buckets); err != nil {
		return nil, err
	}

	structure := models.Structure{}
	for _, b := range buckets {
		if structure[b.Key.Semester] == nil {
			structure[b.Key.Semester] = map[string]map[string]int64{}
		}
		if structure[b.Key.Semester][b.Key.Subject] == nil {
			structure[b.Key.Semester][b.Key.Subject] = map[string]int64{}
		}
		structure[b.Key.Semester][b.Key.Subject][b.Key.Category] = b.Count
	}
	return structure, nil
}

// Subjects returns the distinct subjects offered in a semester.
func (s *Store) Subjects(ctx context.Context, semester int) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "subject", bson.M{"semester": semester})
	if err != nil {
		return nil, err
	}
	return toStrings(raw), nil
}

// Categories returns the distinct categories present for a semester+subject.
func (s *Store) Categories(ctx context.Context, semester int, subject string) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "category", bson.M{"semester": semester, "subject": subject})
	if err != nil {
		return nil, err
	}
	return toStrings(raw), nil
}

func toStrings(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
