// internal/services/project/tasks.go
package project

import (
	"context"

	taskstore "github.com/dalemusser/taskforge/internal/app/store/tasks"
	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.uber.org/zap"
)

// CreateTask adds a task to a project. Any member may create tasks. After
// the insert commits, task_created goes out on the bus; emission never
// blocks or fails the command.
func (s *Service) CreateTask(ctx context.Context, cmd messages.CreateTask) (*models.Task, error) {
	if _, err := s.policy.RequireMember(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}

	status := cmd.Status
	if status == "" {
		status = models.TaskTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, apperr.Validation("invalid task status %q", status)
	}
	priority := cmd.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, apperr.Validation("invalid task priority %q", priority)
	}

	t := &models.Task{
		ProjectID:   cmd.ProjectID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Status:      status,
		Priority:    priority,
		AssigneeID:  cmd.AssigneeID,
		DueDate:     cmd.DueDate,
		CreatedBy:   cmd.ActorID,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	if err := s.projects.Touch(ctx, cmd.ProjectID); err != nil {
		s.log.Warn("could not touch project after task create",
			zap.String("project_id", cmd.ProjectID.Hex()), zap.Error(err))
	}

	s.log.Info("task created",
		zap.String("task_id", t.ID.Hex()),
		zap.String("project_id", cmd.ProjectID.Hex()))
	s.events.Emit(messages.EventTaskCreated, messages.TaskCreated{
		ProjectID:   cmd.ProjectID.Hex(),
		TaskID:      t.ID.Hex(),
		Title:       t.Title,
		Description: t.Description,
	})
	return t, nil
}

// GetProjectTasks lists a project's tasks, newest first.
func (s *Service) GetProjectTasks(ctx context.Context, cmd messages.GetProjectTasks) ([]models.Task, error) {
	if _, err := s.policy.RequireMember(ctx, cmd.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, cmd.ProjectID)
}

// UpdateTask partially updates a task. Any member of the task's project may
// edit it.
func (s *Service) UpdateTask(ctx context.Context, cmd messages.UpdateTask) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, cmd.TaskID)
	if err == taskstore.ErrNotFound {
		return nil, apperr.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.policy.RequireMember(ctx, t.ProjectID, cmd.ActorID); err != nil {
		return nil, err
	}

	if cmd.Status != nil && !models.ValidTaskStatus(*cmd.Status) {
		return nil, apperr.Validation("invalid task status %q", *cmd.Status)
	}
	if cmd.Priority != nil && !models.ValidPriority(*cmd.Priority) {
		return nil, apperr.Validation("invalid task priority %q", *cmd.Priority)
	}

	updated, err := s.tasks.Update(ctx, cmd.TaskID, taskstore.UpdateFields{
		Title:         cmd.Title,
		Description:   cmd.Description,
		Status:        cmd.Status,
		Priority:      cmd.Priority,
		AssigneeID:    cmd.AssigneeID,
		ClearAssignee: cmd.ClearAssignee,
		DueDate:       cmd.DueDate,
		ClearDueDate:  cmd.ClearDueDate,
	})
	if err == taskstore.ErrNotFound {
		return nil, apperr.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task. Deletion needs modify capability on the task's
// project, unlike editing, which any member may do.
func (s *Service) DeleteTask(ctx context.Context, cmd messages.DeleteTask) error {
	t, err := s.tasks.GetByID(ctx, cmd.TaskID)
	if err == taskstore.ErrNotFound {
		return apperr.NotFound("task not found")
	}
	if err != nil {
		return err
	}
	if _, err := s.policy.RequireModify(ctx, t.ProjectID, cmd.ActorID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, cmd.TaskID); err != nil {
		if err == taskstore.ErrNotFound {
			return apperr.NotFound("task not found")
		}
		return err
	}
	s.log.Info("task deleted",
		zap.String("task_id", cmd.TaskID.Hex()),
		zap.String("project_id", t.ProjectID.Hex()))
	return nil
}
