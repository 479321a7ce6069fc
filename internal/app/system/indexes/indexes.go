// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes are load-bearing: duplicate-email registration,
duplicate project membership, and context upsert races all resolve to
clean Conflict errors only because the server enforces these constraints.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "memberships: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}
	if err := ensureAIContexts(ctx, db); err != nil {
		problems = append(problems, "ai_contexts: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func createIndexes(ctx context.Context, db *mongo.Database, collection string, indexes []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	})
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "projects", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("by_owner"),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("by_updated"),
		},
	})
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "memberships", []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "project_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetName("uniq_project_user").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("by_user"),
		},
	})
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "tasks", []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "project_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("by_project_created"),
		},
	})
}

func ensureAIContexts(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "ai_contexts", []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "source_id", Value: 1},
				{Key: "source_type", Value: 1},
			},
			Options: options.Index().SetName("uniq_source").SetUnique(true),
		},
	})
}
