// internal/services/project/members.go
package project

import (
	"context"

	membershipstore "github.com/dalemusser/taskforge/internal/app/store/memberships"
	userstore "github.com/dalemusser/taskforge/internal/app/store/users"
	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AddMember adds a user to a project. The target must exist, must not
// already be a member, and can never be granted OWNER.
func (s *Service) AddMember(ctx context.Context, cmd messages.AddMember) (*messages.MemberDetail, error) {
	if _, err := s.policy.RequireModify(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}
	if !models.ValidAssignableRole(cmd.Role) {
		return nil, apperr.Validation("invalid member role %q", cmd.Role)
	}

	target, err := s.users.GetByID(ctx, cmd.TargetID)
	if err == userstore.ErrNotFound {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	m, err := s.memberships.Add(ctx, cmd.ProjectID, cmd.TargetID, cmd.Role)
	if err == membershipstore.ErrDuplicateMembership {
		return nil, apperr.Conflict("user is already a member of this project")
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("member added",
		zap.String("project_id", cmd.ProjectID.Hex()),
		zap.String("user_id", cmd.TargetID.Hex()),
		zap.String("role", cmd.Role))
	return &messages.MemberDetail{Membership: m, User: target}, nil
}

// GetMembers lists a project's members, oldest joiner first.
func (s *Service) GetMembers(ctx context.Context, cmd messages.GetMembers) ([]messages.MemberDetail, error) {
	if _, err := s.policy.RequireMember(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}
	return s.memberDetails(ctx, cmd.ProjectID)
}

// UpdateMemberRole changes a member's role. The owner's role is immutable.
func (s *Service) UpdateMemberRole(ctx context.Context, cmd messages.UpdateMemberRole) (*models.Membership, error) {
	if _, err := s.policy.RequireModify(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}
	if !models.ValidAssignableRole(cmd.Role) {
		return nil, apperr.Validation("invalid member role %q", cmd.Role)
	}

	m, err := s.memberships.UpdateRole(ctx, cmd.ProjectID, cmd.TargetID, cmd.Role)
	switch err {
	case nil:
		return m, nil
	case membershipstore.ErrOwnerProtected:
		return nil, apperr.Forbidden("the project owner's role cannot be changed")
	case membershipstore.ErrNotFound:
		return nil, apperr.NotFound("membership not found")
	default:
		return nil, err
	}
}

// RemoveMember removes a member from a project. The owner can never be
// removed; removing an already-removed member reports NotFound rather than
// silently succeeding.
func (s *Service) RemoveMember(ctx context.Context, cmd messages.RemoveMember) error {
	if _, err := s.policy.RequireModify(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return err
	}

	err := s.memberships.Remove(ctx, cmd.ProjectID, cmd.TargetID)
	switch err {
	case nil:
		s.log.Info("member removed",
			zap.String("project_id", cmd.ProjectID.Hex()),
			zap.String("user_id", cmd.TargetID.Hex()))
		return nil
	case membershipstore.ErrOwnerProtected:
		return apperr.Forbidden("the project owner cannot be removed")
	case membershipstore.ErrNotFound:
		return apperr.NotFound("membership not found")
	default:
		return err
	}
}

// memberDetails joins a project's memberships with user profiles. A
// membership whose user record has vanished is kept with a nil User.
func (s *Service) memberDetails(ctx context.Context, projectID primitive.ObjectID) ([]messages.MemberDetail, error) {
	memberships, err := s.memberships.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(memberships))
	for i := range memberships {
		ids[i] = memberships[i].UserID
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]messages.MemberDetail, len(memberships))
	for i := range memberships {
		details[i] = messages.MemberDetail{
			Membership: &memberships[i],
			User:       users[memberships[i].UserID],
		}
	}
	return details, nil
}
