package assistant_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	contextstore "github.com/dalemusser/taskforge/internal/app/store/contexts"
	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"github.com/dalemusser/taskforge/internal/services/assistant"
	"go.uber.org/zap"
)

type fakeContexts struct {
	mu      sync.Mutex
	entries map[string]*models.AIContext // sourceID|sourceType
	fail    error                        // when set, every call fails
}

func newFakeContexts() *fakeContexts {
	return &fakeContexts{entries: make(map[string]*models.AIContext)}
}

func key(sourceID, sourceType string) string { return sourceID + "|" + sourceType }

func (f *fakeContexts) Get(_ context.Context, sourceID, sourceType string) (*models.AIContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	c, ok := f.entries[key(sourceID, sourceType)]
	if !ok {
		return nil, contextstore.ErrNotFound
	}
	return c, nil
}

func (f *fakeContexts) Upsert(_ context.Context, sourceID, sourceType, content string) (*models.AIContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	c := &models.AIContext{SourceID: sourceID, SourceType: sourceType, Content: content}
	f.entries[key(sourceID, sourceType)] = c
	return c, nil
}

func (f *fakeContexts) Delete(_ context.Context, sourceID, sourceType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	k := key(sourceID, sourceType)
	if _, ok := f.entries[k]; !ok {
		return contextstore.ErrNotFound
	}
	delete(f.entries, k)
	return nil
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestChat(t *testing.T) {
	gen := &fakeGenerator{reply: "On it."}
	svc := assistant.New(newFakeContexts(), gen, zap.NewNop())

	res, err := svc.Chat(context.Background(), messages.Chat{Message: "status update?"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if res.Response != "On it." {
		t.Errorf("Response: got %q", res.Response)
	}
	if _, err := time.Parse(time.RFC3339, res.Timestamp); err != nil {
		t.Errorf("Timestamp not RFC3339: %q", res.Timestamp)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "status update?") {
		t.Errorf("prompt missing user message: %q", gen.prompts)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	svc := assistant.New(newFakeContexts(), gen, zap.NewNop())

	res, err := svc.Chat(context.Background(), messages.Chat{})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if res.Response != "Message is empty" {
		t.Errorf("Response: got %q", res.Response)
	}
	if len(gen.prompts) != 0 {
		t.Error("empty message must not reach the model")
	}
}

func TestChat_GroundsOnProjectContext(t *testing.T) {
	contexts := newFakeContexts()
	if _, err := contexts.Upsert(context.Background(), "p1", models.SourceTypeProject, "PROJECT KNOWLEDGE BASE:\n\nTASKS:\n- TASK: Ship it [ID: t1]"); err != nil {
		t.Fatal(err)
	}
	gen := &fakeGenerator{reply: "ok"}
	svc := assistant.New(contexts, gen, zap.NewNop())

	if _, err := svc.Chat(context.Background(), messages.Chat{Message: "what's next?", ProjectID: "p1"}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !strings.Contains(gen.prompts[0], "PROJECT CONTEXT:") {
		t.Error("prompt missing context header")
	}
	if !strings.Contains(gen.prompts[0], "Ship it") {
		t.Error("prompt missing knowledge base content")
	}
}

func TestChat_RecoversFromModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: apperr.Inference("model unreachable")}
	svc := assistant.New(newFakeContexts(), gen, zap.NewNop())

	res, err := svc.Chat(context.Background(), messages.Chat{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat must not fail on model errors, got %v", err)
	}
	if !strings.Contains(res.Response, "Sorry") {
		t.Errorf("expected apologetic reply, got %q", res.Response)
	}
	if res.Timestamp == "" {
		t.Error("expected a timestamp on the fallback reply")
	}
}

func TestChat_EmptyModelReply(t *testing.T) {
	gen := &fakeGenerator{reply: ""}
	svc := assistant.New(newFakeContexts(), gen, zap.NewNop())

	res, err := svc.Chat(context.Background(), messages.Chat{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if res.Response != "No response from Gemini" {
		t.Errorf("Response: got %q", res.Response)
	}
}

func TestContextCommands(t *testing.T) {
	svc := assistant.New(newFakeContexts(), &fakeGenerator{}, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.GetContext(ctx, messages.GetContext{SourceID: "p1", SourceType: "PROJECT"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	if _, err := svc.UpsertContext(ctx, messages.UpsertContext{
		SourceID: "p1", SourceType: "PROJECT", Content: "notes",
	}); err != nil {
		t.Fatalf("UpsertContext failed: %v", err)
	}

	c, err := svc.GetContext(ctx, messages.GetContext{SourceID: "p1", SourceType: "PROJECT"})
	if err != nil {
		t.Fatalf("GetContext failed: %v", err)
	}
	if c.Content != "notes" {
		t.Errorf("Content: got %q", c.Content)
	}

	if err := svc.DeleteContext(ctx, messages.DeleteContext{SourceID: "p1", SourceType: "PROJECT"}); err != nil {
		t.Fatalf("DeleteContext failed: %v", err)
	}
	if err := svc.DeleteContext(ctx, messages.DeleteContext{SourceID: "p1", SourceType: "PROJECT"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	svc := assistant.New(newFakeContexts(), &fakeGenerator{}, zap.NewNop())

	res := svc.HealthCheck(context.Background())
	if res.Status != "ok" {
		t.Errorf("Status: got %q", res.Status)
	}
	if _, err := time.Parse(time.RFC3339, res.Time); err != nil {
		t.Errorf("Time not RFC3339: %q", res.Time)
	}
}

var errStore = errors.New("store down")
