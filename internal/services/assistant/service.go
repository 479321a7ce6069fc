// internal/services/assistant/service.go

// Package assistant is the AI collaborator: chat over a per-project
// knowledge base, context storage, and the synchronizer that folds
// task_created events into that knowledge base.
package assistant

import (
	"context"
	"time"

	contextstore "github.com/dalemusser/taskforge/internal/app/store/contexts"
	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/bus"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.uber.org/zap"
)

const systemPrompt = "You are a helpful project management assistant. " +
	"Ground your responses in the provided project context if available."

// fallbackReply is returned when the model cannot be reached; chat never
// surfaces an Inference error to its caller.
const fallbackReply = "Sorry, I encountered an error while processing your request."

// ContextStore is the slice of the context store the service needs.
type ContextStore interface {
	Get(ctx context.Context, sourceID, sourceType string) (*models.AIContext, error)
	Upsert(ctx context.Context, sourceID, sourceType, content string) (*models.AIContext, error)
	Delete(ctx context.Context, sourceID, sourceType string) error
}

// Service implements the assistant commands and the knowledge base
// synchronizer.
type Service struct {
	contexts  ContextStore
	generator Generator
	log       *zap.Logger
}

func New(contexts ContextStore, generator Generator, log *zap.Logger) *Service {
	return &Service{contexts: contexts, generator: generator, log: log}
}

// Bind registers the service's command handlers and event subscriptions.
func (s *Service) Bind(b *bus.Bus) {
	b.Register(messages.CmdChat, func(ctx context.Context, p any) (any, error) {
		return s.Chat(ctx, p.(messages.Chat))
	})
	b.Register(messages.CmdGetContext, func(ctx context.Context, p any) (any, error) {
		return s.GetContext(ctx, p.(messages.GetContext))
	})
	b.Register(messages.CmdUpsertContext, func(ctx context.Context, p any) (any, error) {
		return s.UpsertContext(ctx, p.(messages.UpsertContext))
	})
	b.Register(messages.CmdDeleteContext, func(ctx context.Context, p any) (any, error) {
		return nil, s.DeleteContext(ctx, p.(messages.DeleteContext))
	})
	b.Register(messages.CmdHealthCheck, func(ctx context.Context, p any) (any, error) {
		return s.HealthCheck(ctx), nil
	})
	b.Subscribe(messages.EventTaskCreated, func(ctx context.Context, p any) error {
		return s.HandleTaskCreated(ctx, p.(messages.TaskCreated))
	})
	b.Subscribe(messages.EventProjectDeleted, func(ctx context.Context, p any) error {
		return s.HandleProjectDeleted(ctx, p.(messages.ProjectDeleted))
	})
}

// Chat answers a message, grounding on the project's knowledge base when a
// project id is given. Model failures degrade to a best-effort reply; chat
// itself never fails.
func (s *Service) Chat(ctx context.Context, cmd messages.Chat) (*messages.ChatResult, error) {
	if cmd.Message == "" {
		return &messages.ChatResult{
			Response:  "Message is empty",
			Timestamp: now(),
		}, nil
	}

	prompt := systemPrompt
	if cmd.ProjectID != "" {
		kb, err := s.contexts.Get(ctx, cmd.ProjectID, models.SourceTypeProject)
		if err == nil {
			prompt += "\n\nPROJECT CONTEXT:\n" + kb.Content
		} else if err != contextstore.ErrNotFound {
			s.log.Warn("could not load project context for chat",
				zap.String("project_id", cmd.ProjectID), zap.Error(err))
		}
	}
	prompt += "\n\nUser Message: " + cmd.Message

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.log.Error("generation failed", zap.Error(err))
		return &messages.ChatResult{Response: fallbackReply, Timestamp: now()}, nil
	}
	if text == "" {
		text = "No response from Gemini"
	}
	return &messages.ChatResult{Response: text, Timestamp: now()}, nil
}

// GetContext fetches one context entry.
func (s *Service) GetContext(ctx context.Context, cmd messages.GetContext) (*models.AIContext, error) {
	c, err := s.contexts.Get(ctx, cmd.SourceID, cmd.SourceType)
	if err == contextstore.ErrNotFound {
		return nil, apperr.NotFound("context not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpsertContext writes a context entry, replacing any existing content.
func (s *Service) UpsertContext(ctx context.Context, cmd messages.UpsertContext) (*models.AIContext, error) {
	return s.contexts.Upsert(ctx, cmd.SourceID, cmd.SourceType, cmd.Content)
}

// DeleteContext removes a context entry.
func (s *Service) DeleteContext(ctx context.Context, cmd messages.DeleteContext) error {
	err := s.contexts.Delete(ctx, cmd.SourceID, cmd.SourceType)
	if err == contextstore.ErrNotFound {
		return apperr.NotFound("context not found")
	}
	return err
}

// HealthCheck reports liveness.
func (s *Service) HealthCheck(context.Context) *messages.HealthResult {
	return &messages.HealthResult{Status: "ok", Time: now()}
}

// Probe exercises the generator once, logging but not failing on error.
// Called at startup so a bad API key shows up immediately in the logs.
func (s *Service) Probe(ctx context.Context) {
	if _, err := s.generator.Generate(ctx, "ping"); err != nil {
		s.log.Warn("assistant model probe failed", zap.Error(err))
		return
	}
	s.log.Info("assistant model reachable")
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
