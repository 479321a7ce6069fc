// internal/messages/messages.go

// Package messages defines the typed payloads and results carried over the
// command/event bus. One struct per command or event name; the gateway
// validates and sanitizes before dispatch, so handlers trust these fields.
package messages

import (
	"time"

	"github.com/dalemusser/taskforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Command names.
const (
	CmdRegister         = "register"
	CmdLogin            = "login"
	CmdVerify           = "verify"
	CmdTestAuth         = "test_auth"
	CmdCreateProject    = "create_project"
	CmdGetUserProjects  = "get_user_projects"
	CmdGetProject       = "get_project"
	CmdUpdateProject    = "update_project"
	CmdDeleteProject    = "delete_project"
	CmdAddMember        = "add_member"
	CmdGetMembers       = "get_members"
	CmdUpdateMemberRole = "update_member_role"
	CmdRemoveMember     = "remove_member"
	CmdCreateTask       = "create_task"
	CmdGetProjectTasks  = "get_project_tasks"
	CmdUpdateTask       = "update_task"
	CmdDeleteTask       = "delete_task"
	CmdChat             = "chat"
	CmdGetContext       = "get_context"
	CmdUpsertContext    = "upsert_context"
	CmdDeleteContext    = "delete_context"
	CmdHealthCheck      = "health_check"
)

// Event names.
const (
	EventTaskCreated    = "task_created"
	EventProjectDeleted = "project_deleted"
)

// Identity provider commands.

type Register struct {
	Email    string
	Name     string
	Password string
}

type Login struct {
	Email    string
	Password string
}

type Verify struct {
	Token string
}

type TestAuth struct {
	Token string
}

// AuthResult is the reply to register and login.
type AuthResult struct {
	User  *models.User
	Token string
}

// Project commands.

type CreateProject struct {
	OwnerID     primitive.ObjectID
	Name        string
	Description string
}

type GetUserProjects struct {
	UserID primitive.ObjectID
}

type GetProject struct {
	ProjectID primitive.ObjectID
	ActorID   primitive.ObjectID
}

type UpdateProject struct {
	ProjectID   primitive.ObjectID
	ActorID     primitive.ObjectID
	Name        *string
	Description *string
	Status      *string
}

type DeleteProject struct {
	ProjectID primitive.ObjectID
	ActorID   primitive.ObjectID
}

type AddMember struct {
	ProjectID primitive.ObjectID
	ActorID   primitive.ObjectID
	TargetID  primitive.ObjectID
	Role      string
}

type GetMembers struct {
	ProjectID primitive.ObjectID
	ActorID   primitive.ObjectID
}

type UpdateMemberRole struct {
	ProjectID primitive.ObjectID
	ActorID   primitive.ObjectID
	TargetID  primitive.ObjectID
	Role      string
}

type RemoveMember struct {
	ProjectID primitive.ObjectID
	ActorID   primitive.ObjectID
	TargetID  primitive.ObjectID
}

// Task commands.

type CreateTask struct {
	ProjectID   primitive.ObjectID
	ActorID     primitive.ObjectID
	Title       string
	Description string
	Status      string // optional, defaults to TODO
	Priority    string // optional, defaults to MEDIUM
	AssigneeID  *primitive.ObjectID
	DueDate     *time.Time
}

type GetProjectTasks struct {
	ProjectID primitive.ObjectID
	ActorID   primitive.ObjectID
}

type UpdateTask struct {
	TaskID        primitive.ObjectID
	ActorID       primitive.ObjectID
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	AssigneeID    *primitive.ObjectID
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

type DeleteTask struct {
	TaskID  primitive.ObjectID
	ActorID primitive.ObjectID
}

// MemberDetail is a membership joined with its user's profile fields.
type MemberDetail struct {
	Membership *models.Membership
	User       *models.User
}

// ProjectDetail is a project with its members and, where requested, tasks
// and a task count.
type ProjectDetail struct {
	Project   *models.Project
	Members   []MemberDetail
	Tasks     []*models.Task
	TaskCount int64
}

// Assistant commands.

type Chat struct {
	Message   string
	ProjectID string // optional; hex project id scoping the conversation
}

// ChatResult carries the assistant reply and its RFC3339 timestamp.
type ChatResult struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type GetContext struct {
	SourceID   string
	SourceType string
}

type UpsertContext struct {
	SourceID   string
	SourceType string
	Content    string
}

type DeleteContext struct {
	SourceID   string
	SourceType string
}

type HealthCheck struct{}

// HealthResult reports service liveness.
type HealthResult struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Events.

// TaskCreated is emitted after a task insert commits. The synchronizer
// folds it into the project's knowledge base.
type TaskCreated struct {
	ProjectID   string
	TaskID      string
	Title       string
	Description string
}

// ProjectDeleted is emitted after a project cascade delete commits so the
// assistant can drop the project's knowledge base entry.
type ProjectDeleted struct {
	ProjectID string
}
