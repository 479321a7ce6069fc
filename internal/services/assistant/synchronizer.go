// internal/services/assistant/synchronizer.go
package assistant

import (
	"context"
	"strings"

	contextstore "github.com/dalemusser/taskforge/internal/app/store/contexts"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.uber.org/zap"
)

const (
	kbHeader     = "PROJECT KNOWLEDGE BASE:"
	tasksSection = "TASKS:"
)

// HandleTaskCreated folds one task_created event into the project's
// knowledge base. Merge-if-absent: the task id acts as the idempotence key,
// so replays and redeliveries leave the content unchanged. A returned error
// means the bus should redeliver.
func (s *Service) HandleTaskCreated(ctx context.Context, e messages.TaskCreated) error {
	existing, err := s.contexts.Get(ctx, e.ProjectID, models.SourceTypeProject)
	if err != nil && err != contextstore.ErrNotFound {
		return err
	}

	content := kbHeader
	if existing != nil {
		content = existing.Content
	}
	if strings.Contains(content, e.TaskID) {
		return nil
	}

	if !strings.Contains(content, tasksSection) {
		content += "\n\n" + tasksSection
	}
	content += taskLine(e)

	if _, err := s.contexts.Upsert(ctx, e.ProjectID, models.SourceTypeProject, content); err != nil {
		return err
	}
	s.log.Info("knowledge base updated",
		zap.String("project_id", e.ProjectID),
		zap.String("task_id", e.TaskID))
	return nil
}

// HandleProjectDeleted drops the project's knowledge base entry. A missing
// entry is fine: the project may never have had tasks.
func (s *Service) HandleProjectDeleted(ctx context.Context, e messages.ProjectDeleted) error {
	err := s.contexts.Delete(ctx, e.ProjectID, models.SourceTypeProject)
	if err == contextstore.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info("knowledge base removed", zap.String("project_id", e.ProjectID))
	return nil
}

func taskLine(e messages.TaskCreated) string {
	line := "\n- TASK: " + e.Title
	if e.Description != "" {
		line += " (" + e.Description + ")"
	}
	return line + " [ID: " + e.TaskID + "]"
}
