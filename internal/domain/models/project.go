// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses.
const (
	ProjectActive    = "ACTIVE"
	ProjectArchived  = "ARCHIVED"
	ProjectCompleted = "COMPLETED"
)

// ValidProjectStatus reports whether s is a recognized project status.
func ValidProjectStatus(s string) bool {
	return s == ProjectActive || s == ProjectArchived || s == ProjectCompleted
}

// Project is the root aggregate: it owns memberships and tasks, which are
// cascade-deleted with it.
//
// NOTE:
//   - Members and tasks are not embedded on Project.
//     Use the memberships and tasks collections.
//   - OwnerID is set at creation and never changes; the matching OWNER
//     membership is created in the same transaction.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"` // ACTIVE | ARCHIVED | COMPLETED
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
