// internal/services/project/service.go

// Package project implements the project aggregate commands: project
// lifecycle, member management, and tasks. Every mutating command gates on
// the authorization policy before touching storage.
package project

import (
	"context"

	"github.com/dalemusser/taskforge/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskforge/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskforge/internal/app/store/tasks"
	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/bus"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProjectStore is the slice of the project store the service needs.
type ProjectStore interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, name, description string) (*models.Project, *models.Membership, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, fields projectstore.UpdateFields) (*models.Project, error)
	Touch(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MembershipStore is the slice of the membership store the service needs.
type MembershipStore interface {
	Add(ctx context.Context, projectID, userID primitive.ObjectID, role string) (*models.Membership, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Membership, error)
	ProjectIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	UpdateRole(ctx context.Context, projectID, userID primitive.ObjectID, role string) (*models.Membership, error)
	Remove(ctx context.Context, projectID, userID primitive.ObjectID) error
}

// TaskStore is the slice of the task store the service needs.
type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, fields taskstore.UpdateFields) (*models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountPerProject(ctx context.Context, projectIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error)
}

// UserStore is the slice of the user store the service needs.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
}

// Emitter publishes events without blocking the command path.
type Emitter interface {
	Emit(name string, payload any)
}

// Service implements the project aggregate commands.
type Service struct {
	projects    ProjectStore
	memberships MembershipStore
	tasks       TaskStore
	users       UserStore
	policy      *projectpolicy.Policy
	events      Emitter
	log         *zap.Logger
}

func New(
	projects ProjectStore,
	memberships MembershipStore,
	tasks TaskStore,
	users UserStore,
	policy *projectpolicy.Policy,
	events Emitter,
	log *zap.Logger,
) *Service {
	return &Service{
		projects:    projects,
		memberships: memberships,
		tasks:       tasks,
		users:       users,
		policy:      policy,
		events:      events,
		log:         log,
	}
}

// Bind registers the service's command handlers on the bus.
func (s *Service) Bind(b *bus.Bus) {
	b.Register(messages.CmdCreateProject, func(ctx context.Context, p any) (any, error) {
		return s.CreateProject(ctx, p.(messages.CreateProject))
	})
	b.Register(messages.CmdGetUserProjects, func(ctx context.Context, p any) (any, error) {
		return s.GetUserProjects(ctx, p.(messages.GetUserProjects))
	})
	b.Register(messages.CmdGetProject, func(ctx context.Context, p any) (any, error) {
		return s.GetProject(ctx, p.(messages.GetProject))
	})
	b.Register(messages.CmdUpdateProject, func(ctx context.Context, p any) (any, error) {
		return s.UpdateProject(ctx, p.(messages.UpdateProject))
	})
	b.Register(messages.CmdDeleteProject, func(ctx context.Context, p any) (any, error) {
		return nil, s.DeleteProject(ctx, p.(messages.DeleteProject))
	})
	b.Register(messages.CmdAddMember, func(ctx context.Context, p any) (any, error) {
		return s.AddMember(ctx, p.(messages.AddMember))
	})
	b.Register(messages.CmdGetMembers, func(ctx context.Context, p any) (any, error) {
		return s.GetMembers(ctx, p.(messages.GetMembers))
	})
	b.Register(messages.CmdUpdateMemberRole, func(ctx context.Context, p any) (any, error) {
		return s.UpdateMemberRole(ctx, p.(messages.UpdateMemberRole))
	})
	b.Register(messages.CmdRemoveMember, func(ctx context.Context, p any) (any, error) {
		return nil, s.RemoveMember(ctx, p.(messages.RemoveMember))
	})
	b.Register(messages.CmdCreateTask, func(ctx context.Context, p any) (any, error) {
		return s.CreateTask(ctx, p.(messages.CreateTask))
	})
	b.Register(messages.CmdGetProjectTasks, func(ctx context.Context, p any) (any, error) {
		return s.GetProjectTasks(ctx, p.(messages.GetProjectTasks))
	})
	b.Register(messages.CmdUpdateTask, func(ctx context.Context, p any) (any, error) {
		return s.UpdateTask(ctx, p.(messages.UpdateTask))
	})
	b.Register(messages.CmdDeleteTask, func(ctx context.Context, p any) (any, error) {
		return nil, s.DeleteTask(ctx, p.(messages.DeleteTask))
	})
}

// CreateProject creates a project owned by the caller. The project and its
// OWNER membership are written in one transaction.
func (s *Service) CreateProject(ctx context.Context, cmd messages.CreateProject) (*messages.ProjectDetail, error) {
	p, _, err := s.projects.Create(ctx, cmd.OwnerID, cmd.Name, cmd.Description)
	if err != nil {
		return nil, err
	}
	s.log.Info("project created",
		zap.String("project_id", p.ID.Hex()),
		zap.String("owner_id", cmd.OwnerID.Hex()))
	return s.projectDetail(ctx, p, false)
}

// GetUserProjects lists the projects the user belongs to, most recently
// updated first, each with its member list and task count.
func (s *Service) GetUserProjects(ctx context.Context, cmd messages.GetUserProjects) ([]*messages.ProjectDetail, error) {
	ids, err := s.memberships.ProjectIDsForUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.tasks.CountPerProject(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]*messages.ProjectDetail, 0, len(projects))
	for i := range projects {
		d, err := s.projectDetail(ctx, &projects[i], false)
		if err != nil {
			return nil, err
		}
		d.TaskCount = int64(counts[projects[i].ID])
		details = append(details, d)
	}
	return details, nil
}

// GetProject returns one project with members and tasks. A missing project
// reports NotFound; an existing project the caller does not belong to
// reports AccessDenied.
func (s *Service) GetProject(ctx context.Context, cmd messages.GetProject) (*messages.ProjectDetail, error) {
	p, err := s.projects.GetByID(ctx, cmd.ProjectID)
	if err == projectstore.ErrNotFound {
		return nil, apperr.NotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.policy.RequireMember(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}
	return s.projectDetail(ctx, p, true)
}

// UpdateProject partially updates name, description, or status.
func (s *Service) UpdateProject(ctx context.Context, cmd messages.UpdateProject) (*models.Project, error) {
	if _, err := s.policy.RequireModify(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}
	if cmd.Status != nil && !models.ValidProjectStatus(*cmd.Status) {
		return nil, apperr.Validation("invalid project status %q", *cmd.Status)
	}

	p, err := s.projects.Update(ctx, cmd.ProjectID, projectstore.UpdateFields{
		Name:        cmd.Name,
		Description: cmd.Description,
		Status:      cmd.Status,
	})
	if err == projectstore.ErrNotFound {
		return nil, apperr.NotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes a project and everything under it. Only the owner
// may delete; ADMIN is not enough. Emits project_deleted after the cascade
// commits so the assistant can drop the project's knowledge base.
func (s *Service) DeleteProject(ctx context.Context, cmd messages.DeleteProject) error {
	if _, err := s.projects.GetByID(ctx, cmd.ProjectID); err != nil {
		if err == projectstore.ErrNotFound {
			return apperr.NotFound("project not found")
		}
		return err
	}
	if _, err := s.policy.RequireOwner(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, cmd.ProjectID); err != nil {
		if err == projectstore.ErrNotFound {
			return apperr.NotFound("project not found")
		}
		return err
	}

	s.log.Info("project deleted",
		zap.String("project_id", cmd.ProjectID.Hex()),
		zap.String("actor_id", cmd.ActorID.Hex()))
	s.events.Emit(messages.EventProjectDeleted, messages.ProjectDeleted{
		ProjectID: cmd.ProjectID.Hex(),
	})
	return nil
}

// projectDetail assembles a project with its member list and, when
// withTasks is set, its tasks newest first.
func (s *Service) projectDetail(ctx context.Context, p *models.Project, withTasks bool) (*messages.ProjectDetail, error) {
	members, err := s.memberDetails(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	d := &messages.ProjectDetail{Project: p, Members: members}
	if withTasks {
		tasks, err := s.tasks.ListByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		d.Tasks = make([]*models.Task, len(tasks))
		for i := range tasks {
			d.Tasks[i] = &tasks[i]
		}
		d.TaskCount = int64(len(tasks))
	}
	return d, nil
}
