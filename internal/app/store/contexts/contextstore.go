// internal/app/store/contexts/contextstore.go
package contextstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/taskforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound means no context record matched (source_id, source_type).
var ErrNotFound = errors.New("context not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ai_contexts")}
}

// Get returns the context record for (sourceID, sourceType).
func (s *Store) Get(ctx context.Context, sourceID, sourceType string) (*models.AIContext, error) {
	var c models.AIContext
	err := s.c.FindOne(ctx, bson.M{"source_id": sourceID, "source_type": sourceType}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert creates or replaces the content for (sourceID, sourceType).
// The unique index on the pair makes concurrent upserts converge on a
// single document.
func (s *Store) Upsert(ctx context.Context, sourceID, sourceType, content string) (*models.AIContext, error) {
	now := time.Now().UTC()
	filter := bson.M{"source_id": sourceID, "source_type": sourceType}
	update := bson.M{
		"$set": bson.M{
			"content":    content,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"source_id":   sourceID,
			"source_type": sourceType,
			"created_at":  now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var c models.AIContext
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes the context record for (sourceID, sourceType).
// Returns ErrNotFound if none existed.
func (s *Store) Delete(ctx context.Context, sourceID, sourceType string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"source_id": sourceID, "source_type": sourceType})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
