package projectstore_test

import (
	"testing"
	"time"

	membershipstore "github.com/dalemusser/taskforge/internal/app/store/memberships"
	projectstore "github.com/dalemusser/taskforge/internal/app/store/projects"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_Create_AddsOwnerMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db.Client(), db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")

	p, m, err := store.Create(ctx, owner.ID, "Launch", "Ship the thing")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID.IsZero() {
		t.Fatal("expected ID to be assigned")
	}
	if p.Status != models.ProjectActive {
		t.Errorf("Status: got %q, want %q", p.Status, models.ProjectActive)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("Role: got %q, want %q", m.Role, models.RoleOwner)
	}

	// The owner membership is persisted alongside the project.
	memberships := membershipstore.New(db)
	got, err := memberships.Get(ctx, p.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if got.Role != models.RoleOwner {
		t.Errorf("persisted role: got %q", got.Role)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db.Client(), db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != projectstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db.Client(), db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	first := fixtures.CreateProject(ctx, "First", owner.ID)
	second := fixtures.CreateProject(ctx, "Second", owner.ID)

	got, err := store.ListByIDs(ctx, []primitive.ObjectID{first.ID, second.ID})
	if err != nil {
		t.Fatalf("ListByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(got))
	}

	empty, err := store.ListByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListByIDs(nil) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no projects for no IDs, got %d", len(empty))
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db.Client(), db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)
	time.Sleep(5 * time.Millisecond)

	name := "Relaunch"
	status := models.ProjectCompleted
	updated, err := store.Update(ctx, project.ID, projectstore.UpdateFields{
		Name:   &name,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Relaunch" {
		t.Errorf("Name: got %q", updated.Name)
	}
	if updated.Status != models.ProjectCompleted {
		t.Errorf("Status: got %q", updated.Status)
	}
	if !updated.UpdatedAt.After(project.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db.Client(), db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	name := "Ghost"
	_, err := store.Update(ctx, primitive.NewObjectID(), projectstore.UpdateFields{Name: &name})
	if err != projectstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db.Client(), db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)
	fixtures.CreateMembership(ctx, project.ID, member.ID, models.RoleMember)
	fixtures.CreateTask(ctx, project.ID, "Write docs")
	fixtures.CreateTask(ctx, project.ID, "Ship it")

	if err := store.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, coll := range []string{"projects", "memberships", "tasks"} {
		count, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("CountDocuments(%s) failed: %v", coll, err)
		}
		if count != 0 {
			t.Errorf("%s: expected 0 documents after delete, got %d", coll, count)
		}
	}
}

func TestStore_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db.Client(), db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Delete(ctx, primitive.NewObjectID()); err != projectstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
