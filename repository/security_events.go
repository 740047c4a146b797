package repository

import (
	"context"
	"fmt"
	"os"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SecurityEventRepo is append-only. Events are never updated or deleted.
type SecurityEventRepo struct {
	MongoCollection *mongo.Collection
}

func GetSecurityEventRepo(client *mongo.Client) *SecurityEventRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("SECURITY_EVENTS_COLLECTION", "security_events")
	return &SecurityEventRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SecurityEventRepo) Insert(ctx context.Context, event *model.SecurityEvent) error {
	timer := utils.TrackDBOperation("insert", "security_events")
	defer timer.ObserveDuration()

	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventType == "" {
		utils.TrackError("database", "invalid_event_data")
		return fmt.Errorf("event type required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, event); err != nil {
		utils.TrackError("database", "event_insert_failed")
		return fmt.Errorf("failed to insert security event: %w", err)
	}

	return nil
}

// ListRecent returns the newest events first, for the admin audit view.
func (r *SecurityEventRepo) ListRecent(ctx context.Context, limit int64) ([]model.SecurityEvent, error) {
	timer := utils.TrackDBOperation("find", "security_events")
	defer timer.ObserveDuration()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.MongoCollection.Find(ctx, bson.D{}, opts)
	if err != nil {
		utils.TrackError("database", "event_list_failed")
		return nil, fmt.Errorf("failed to list security events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []model.SecurityEvent
	if err := cursor.All(ctx, &events); err != nil {
		utils.TrackError("database", "event_decode_failed")
		return nil, fmt.Errorf("failed to decode security events: %w", err)
	}

	return events, nil
}
