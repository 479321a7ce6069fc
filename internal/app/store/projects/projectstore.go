// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/taskforge/internal/app/system/txn"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNotFound means no project matched the lookup.
var ErrNotFound = errors.New("project not found")

type Store struct {
	client      *mongo.Client
	projects    *mongo.Collection
	memberships *mongo.Collection
	tasks       *mongo.Collection
	log         *zap.Logger
}

func New(client *mongo.Client, db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		client:      client,
		projects:    db.Collection("projects"),
		memberships: db.Collection("memberships"),
		tasks:       db.Collection("tasks"),
		log:         log,
	}
}

// Create inserts a project and its OWNER membership in one transaction.
// Neither document exists without the other: a project must never be
// observable without an owner membership.
func (s *Store) Create(ctx context.Context, ownerID primitive.ObjectID, name, description string) (*models.Project, *models.Membership, error) {
	now := time.Now().UTC()
	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Status:      models.ProjectActive,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	membership := models.Membership{
		ID:        primitive.NewObjectID(),
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleOwner,
		JoinedAt:  now,
	}

	err := txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.projects.InsertOne(ctx, project); err != nil {
			return err
		}
		_, err := s.memberships.InsertOne(ctx, membership)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &project, &membership, nil
}

// GetByID returns the project, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByIDs returns the projects with the given IDs, most recently
// updated first.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.projects.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateFields is the partial-update patch for a project. Nil fields are
// left untouched.
type UpdateFields struct {
	Name        *string
	Description *string
	Status      *string
}

// Update applies the patch and returns the updated project, or
// ErrNotFound.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fields UpdateFields) (*models.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Status != nil {
		set["status"] = *fields.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Project
	err := s.projects.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Touch bumps updated_at, used when contained entities change so that
// "most recently updated" project ordering stays meaningful.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.projects.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}})
	return err
}

// Delete removes the project and cascades to its memberships and tasks in
// one transaction, so a crash can never strand orphaned rows.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.tasks.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
			return err
		}
		if _, err := s.memberships.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
			return err
		}
		res, err := s.projects.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}
