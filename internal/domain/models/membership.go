// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles, in decreasing order of capability.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
	RoleViewer = "VIEWER"
)

// ValidRole reports whether r is a recognized membership role.
func ValidRole(r string) bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember || r == RoleViewer
}

// ValidAssignableRole reports whether r may be granted through member
// management. OWNER is excluded: exactly one OWNER membership exists per
// project and it is created only alongside the project itself.
func ValidAssignableRole(r string) bool {
	return r == RoleAdmin || r == RoleMember || r == RoleViewer
}

// Membership is the authoritative join between users and projects.
// Exactly one document per (project_id, user_id); role is a scalar.
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"` // OWNER | ADMIN | MEMBER | VIEWER
	JoinedAt  time.Time          `bson:"joined_at" json:"joined_at"`
}

// CanModify reports whether this membership's role carries modify
// capability (project/member mutations, task deletion).
func (m Membership) CanModify() bool {
	return m.Role == RoleOwner || m.Role == RoleAdmin
}
