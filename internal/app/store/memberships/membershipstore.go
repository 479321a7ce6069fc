// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/taskforge/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateMembership means the user already has a membership row
	// for this project.
	ErrDuplicateMembership = errors.New("user is already a member of this project")
	// ErrNotFound means no membership matched the (project, user) pair.
	ErrNotFound = errors.New("membership not found")
	// ErrOwnerProtected means the operation targeted the OWNER membership,
	// which can never be re-roled or removed through member management.
	ErrOwnerProtected = errors.New("the project owner's membership cannot be changed")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

// Add creates a membership for (projectID, userID). The unique index on
// (project_id, user_id) turns concurrent duplicate adds into
// ErrDuplicateMembership for all but one caller.
func (s *Store) Add(ctx context.Context, projectID, userID primitive.ObjectID, role string) (*models.Membership, error) {
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}

	_, err := s.c.InsertOne(ctx, m)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateMembership
		}
		return nil, err
	}
	return &m, nil
}

// Get returns the membership for (projectID, userID), or ErrNotFound.
func (s *Store) Get(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByProject returns all memberships for a project, oldest first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.Membership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// ProjectIDsForUser returns the IDs of every project the user belongs to.
func (s *Store) ProjectIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ProjectID primitive.ObjectID `bson:"project_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ProjectID)
	}
	return ids, cur.Err()
}

// UpdateRole changes the role of a non-OWNER membership. The role filter
// makes owner protection atomic: even a racing role change cannot touch
// the OWNER row. Returns ErrOwnerProtected if the target is the owner
// membership, ErrNotFound if no membership exists.
func (s *Store) UpdateRole(ctx context.Context, projectID, userID primitive.ObjectID, role string) (*models.Membership, error) {
	filter := bson.M{
		"project_id": projectID,
		"user_id":    userID,
		"role":       bson.M{"$ne": models.RoleOwner},
	}
	update := bson.M{"$set": bson.M{"role": role}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m models.Membership
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, s.classifyMiss(ctx, projectID, userID)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Remove deletes a non-OWNER membership. Two racing removals of the same
// pair resolve to one success and one ErrNotFound; the loser never
// silently succeeds. Returns ErrOwnerProtected for the owner membership.
func (s *Store) Remove(ctx context.Context, projectID, userID primitive.ObjectID) error {
	filter := bson.M{
		"project_id": projectID,
		"user_id":    userID,
		"role":       bson.M{"$ne": models.RoleOwner},
	}
	err := s.c.FindOneAndDelete(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return s.classifyMiss(ctx, projectID, userID)
	}
	return err
}

// classifyMiss distinguishes "no such membership" from "membership exists
// but is the protected OWNER row" after a guarded write matched nothing.
func (s *Store) classifyMiss(ctx context.Context, projectID, userID primitive.ObjectID) error {
	m, err := s.Get(ctx, projectID, userID)
	if err != nil {
		return err // ErrNotFound or a real lookup failure
	}
	if m.Role == models.RoleOwner {
		return ErrOwnerProtected
	}
	return ErrNotFound
}

// DeleteByProject removes all memberships for a project (cascade delete).
// Returns the number of documents deleted.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByProject returns the count of memberships for a project.
func (s *Store) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"project_id": projectID})
}
