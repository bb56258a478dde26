// internal/domain/models/admin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is an administrator account. Exactly one is bootstrapped via the
// setup endpoint; username and email are unique across the collection.
type Admin struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `bson:"password" json:"-"`
	Role         string `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// AdminRole is the only role this system issues.
const AdminRole = "admin"
