package adminstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/dalemusser/eduhub/internal/app/system/auth"
	"github.com/dalemusser/eduhub/internal/app/system/normalize"
	"github.com/dalemusser/eduhub/internal/domain/models"
)

const bcryptCost = 12

var (
	// ErrAlreadyExists is returned by CreateIfNone when an admin account
	// has already been registered.
	ErrAlreadyExists = errors.New("admin account already exists")

	// ErrDuplicate is returned when the username or email collides with
	// an existing account.
	ErrDuplicate = errors.New("an admin with this username or email already exists")

	errMissingFields = errors.New("username, email, and password are required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admins")}
}

// Count reports the number of registered admin accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CreateIfNone registers the initial admin account. It refuses to create
// a second account: registration is a one-time setup step.
func (s *Store) CreateIfNone(ctx context.Context, username, email, password string) (models.Admin, error) {
	username = normalize.Name(username)
	email = normalize.Email(email)
	if username == "" || email == "" || password == "" {
		return models.Admin{}, errMissingFields
	}

	n, err := s.Count(ctx)
	if err != nil {
		return models.Admin{}, err
	}
	if n > 0 {
		return models.Admin{}, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.Admin{}, err
	}

	a := models.Admin{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.AdminRole,
		CreatedAt:    time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicate
		}
		return models.Admin{}, err
	}
	return a, nil
}

// First returns the registered admin account, if any.
// Returns mongo.ErrNoDocuments when none exists.
func (s *Store) First(ctx context.Context) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByUsername looks up an admin by exact username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID loads an admin by ObjectID.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func VerifyPassword(a *models.Admin, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// ResolveAdmin implements auth.Resolver so token verification can confirm
// the account behind a token still exists.
func (s *Store) ResolveAdmin(ctx context.Context, id string) (auth.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return auth.Identity{}, auth.ErrUnknownAdmin
	}
	a, err := s.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.Identity{}, auth.ErrUnknownAdmin
		}
		return auth.Identity{}, err
	}
	return auth.Identity{ID: a.ID.Hex(), Username: a.Username, Email: a.Email}, nil
}
