package membershipstore_test

import (
	"testing"

	membershipstore "github.com/dalemusser/taskforge/internal/app/store/memberships"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)

	m, err := store.Add(ctx, project.ID, member.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if m.Role != models.RoleMember {
		t.Errorf("Role: got %q, want %q", m.Role, models.RoleMember)
	}

	count, err := db.Collection("memberships").CountDocuments(ctx, bson.M{
		"project_id": project.ID,
		"user_id":    member.ID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 membership, got %d", count)
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)

	if _, err := store.Add(ctx, project.ID, member.ID, models.RoleMember); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}

	_, err := store.Add(ctx, project.ID, member.ID, models.RoleViewer)
	if err != membershipstore.ErrDuplicateMembership {
		t.Fatalf("expected ErrDuplicateMembership, got %v", err)
	}

	// The membership count is unchanged.
	count, err := store.CountByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("CountByProject failed: %v", err)
	}
	if count != 2 { // owner + member
		t.Errorf("expected 2 memberships, got %d", count)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	outsider := fixtures.CreateUser(ctx, "Outsider", "outsider@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)

	_, err := store.Get(ctx, project.ID, outsider.ID)
	if err != membershipstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)
	fixtures.CreateMembership(ctx, project.ID, member.ID, models.RoleMember)

	m, err := store.UpdateRole(ctx, project.ID, member.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("Role: got %q, want %q", m.Role, models.RoleAdmin)
	}
}

func TestStore_UpdateRole_OwnerProtected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)

	_, err := store.UpdateRole(ctx, project.ID, owner.ID, models.RoleViewer)
	if err != membershipstore.ErrOwnerProtected {
		t.Fatalf("expected ErrOwnerProtected, got %v", err)
	}

	// The owner row is untouched.
	m, err := store.Get(ctx, project.ID, owner.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("owner role changed to %q", m.Role)
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)
	fixtures.CreateMembership(ctx, project.ID, member.ID, models.RoleMember)

	if err := store.Remove(ctx, project.ID, member.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	// A second removal of the same pair observes "already removed".
	if err := store.Remove(ctx, project.ID, member.ID); err != membershipstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestStore_Remove_OwnerProtected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)

	if err := store.Remove(ctx, project.ID, owner.ID); err != membershipstore.ErrOwnerProtected {
		t.Fatalf("expected ErrOwnerProtected, got %v", err)
	}
}

func TestStore_ListByProject_OrderedByJoin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)
	fixtures.CreateMembership(ctx, project.ID, member.ID, models.RoleMember)

	memberships, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(memberships))
	}
	if memberships[0].UserID != owner.ID {
		t.Errorf("expected owner membership first (oldest join)")
	}
}

func TestStore_DeleteByProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	project := fixtures.CreateProject(ctx, "Launch", owner.ID)
	fixtures.CreateMembership(ctx, project.ID, member.ID, models.RoleMember)

	deleted, err := store.DeleteByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("DeleteByProject failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
}
