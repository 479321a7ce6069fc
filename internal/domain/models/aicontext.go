// internal/domain/models/aicontext.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SourceTypeProject is the source type for project-scoped assistant
// context. Source types are open strings; this is the only one the
// synchronizer writes (source_id == project id by convention).
const SourceTypeProject = "PROJECT"

// AIContext is a free-text knowledge-base blob keyed by (source_id,
// source_type). Written by the context synchronizer and the assistant's
// direct upsert path; read by the chat handler to ground responses.
type AIContext struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SourceID   string             `bson:"source_id" json:"source_id"`
	SourceType string             `bson:"source_type" json:"source_type"`
	Content    string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
