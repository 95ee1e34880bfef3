package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

const auditCollection = "console_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureIndexes creates the lookup indexes of the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Record inserts one audit entry.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	doc := bson.M{
		"_id":       entry.ID,
		"action":    entry.Action,
		"entity":    entry.Entity,
		"entity_id": entry.EntityID,
		"actor":     entry.Actor,
		"success":   entry.Success,
		"at":        entry.At.UTC(),
	}
	if entry.Error != "" {
		doc["error"] = entry.Error
	}

	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
