package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditSink using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup index on (username, at). Safe to call on
// every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("username_at"),
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

// Record appends one event to the audit collection.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.coll.InsertOne(ctx, auditDocument(event, time.Now()))
	return err
}

func auditDocument(event domain.AuditEvent, now time.Time) bson.M {
	at := event.At
	if at.IsZero() {
		at = now
	}
	doc := bson.M{
		"action":      event.Action,
		"username":    event.Username,
		"success":     event.Success,
		"at":          at.UTC(),
		"recorded_at": now.UTC(),
	}
	if event.UserID != 0 {
		doc["user_id"] = int64(event.UserID)
	}
	if event.IP != "" {
		doc["ip"] = event.IP
	}
	if event.RequestID != "" {
		doc["request_id"] = event.RequestID
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}
	return doc
}

var _ ports.AuditSink = (*AuditRepository)(nil)
