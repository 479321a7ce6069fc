// Package projectpolicy provides the authorization checks for project-scoped
// operations.
//
// Authorization rules:
//   - Any membership row grants read access to the project
//   - OWNER and ADMIN roles additionally grant modify access
//   - Non-members are denied without revealing whether the project exists
//
// Policies read the authoritative memberships collection on every call; there
// is no cached grant that could outlive a role change.
package projectpolicy

import (
	"context"

	membershipstore "github.com/dalemusser/taskforge/internal/app/store/memberships"
	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipReader is the slice of the membership store the policy needs.
type MembershipReader interface {
	Get(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Membership, error)
}

// Policy answers authorization questions for project-scoped operations.
type Policy struct {
	memberships MembershipReader
}

// New constructs a Policy over the given membership source.
func New(memberships MembershipReader) *Policy {
	return &Policy{memberships: memberships}
}

// RequireMember returns the actor's membership if one exists, or an
// AccessDenied error. Store failures pass through unwrapped so callers can
// tell an authorization miss from an infrastructure fault.
func (p *Policy) RequireMember(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Membership, error) {
	m, err := p.memberships.Get(ctx, projectID, userID)
	if err == membershipstore.ErrNotFound {
		return nil, apperr.AccessDenied("you do not have access to this project")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RequireModify returns the actor's membership if it carries modify
// capability (OWNER or ADMIN). Non-members get AccessDenied; members whose
// role is insufficient get Forbidden.
func (p *Policy) RequireModify(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Membership, error) {
	m, err := p.RequireMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !m.CanModify() {
		return nil, apperr.Forbidden("your role does not allow modifying this project")
	}
	return m, nil
}

// RequireOwner returns the actor's membership only if they own the project.
// Non-members get AccessDenied; any other member gets Forbidden.
func (p *Policy) RequireOwner(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Membership, error) {
	m, err := p.RequireMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role != models.RoleOwner {
		return nil, apperr.Forbidden("only the project owner can do this")
	}
	return m, nil
}
