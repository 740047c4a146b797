package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("SESSIONS_COLLECTION", "sessions")
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session == nil {
		utils.TrackError("database", "nil_session")
		return fmt.Errorf("session cannot be nil")
	}
	if session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return fmt.Errorf("invalid session data: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("failed to create session in database: %w", err)
	}

	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	var session model.Session
	filter := bson.D{{Key: "session_id", Value: sessionID}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "session_lookup_error")
		return nil, err
	}

	return &session, nil
}

// EndSession marks a session inactive. The row is kept for auditing.
func (r *SessionRepo) EndSession(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"session_id": sessionID}
	update := bson.M{"$set": bson.M{"is_active": false}}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "session_end_failed")
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

func (r *SessionRepo) TouchSession(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"session_id": sessionID}
	update := bson.M{"$set": bson.M{"last_activity_at": time.Now()}}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "session_touch_failed")
		return fmt.Errorf("failed to update session activity: %w", err)
	}

	return nil
}

// RefreshSessionToken replaces the session's token and expiry after a
// refresh.
func (r *SessionRepo) RefreshSessionToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"session_id": sessionID}
	update := bson.M{"$set": bson.M{"token": token, "expires_at": expiresAt}}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "session_refresh_failed")
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	return nil
}

// CountActiveSessions counts active sessions for one user, or for every
// user when userID is empty.
func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"is_active": true}
	if userID != "" {
		filter["user_id"] = userID
	}
	count, err := r.MongoCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.TrackError("database", "session_count_failed")
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}

	return count, nil
}
