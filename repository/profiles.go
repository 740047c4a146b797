package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepo struct {
	MongoCollection *mongo.Collection
}

func GetProfileRepo(client *mongo.Client) *ProfileRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("PROFILES_COLLECTION", "profiles")
	return &ProfileRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	timer := utils.TrackDBOperation("find", "profiles")
	defer timer.ObserveDuration()

	var profile model.Profile
	filter := bson.D{{Key: "email", Value: email}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "profile_lookup_error")
		log.Println("Error finding profile:", err)
		return nil, err
	}

	return &profile, nil
}

// RoleByID resolves the role attribute for a principal. A missing row is
// not an error; it returns an empty role and the caller applies its default.
func (r *ProfileRepo) RoleByID(ctx context.Context, profileID string) (string, error) {
	timer := utils.TrackDBOperation("find", "profiles")
	defer timer.ObserveDuration()

	var result struct {
		Role string `bson:"role"`
	}

	filter := bson.D{{Key: "profile_id", Value: profileID}}
	opts := options.FindOne().SetProjection(bson.M{"role": 1})

	err := r.MongoCollection.FindOne(ctx, filter, opts).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		utils.TrackError("database", "role_lookup_error")
		return "", err
	}

	return result.Role, nil
}

// AttemptState fetches the failed-attempt counter and lock expiry for an
// email. Returns nil when no profile row exists for the identifier.
func (r *ProfileRepo) AttemptState(ctx context.Context, email string) (*model.LoginAttemptState, error) {
	timer := utils.TrackDBOperation("find", "profiles")
	defer timer.ObserveDuration()

	var state model.LoginAttemptState
	filter := bson.D{{Key: "email", Value: email}}
	opts := options.FindOne().SetProjection(bson.M{
		"failed_login_attempts": 1,
		"locked_until":          1,
	})

	err := r.MongoCollection.FindOne(ctx, filter, opts).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "attempt_state_lookup_error")
		return nil, err
	}

	return &state, nil
}

// ResetAttempts clears the failed-attempt counter and lock after a
// successful login.
func (r *ProfileRepo) ResetAttempts(ctx context.Context, email string) error {
	timer := utils.TrackDBOperation("update", "profiles")
	defer timer.ObserveDuration()

	filter := bson.M{"email": email}
	update := bson.M{
		"$set": bson.M{
			"failed_login_attempts": 0,
			"locked_until":          nil,
			"last_sign_in_at":       time.Now(),
		},
	}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "attempt_reset_failed")
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}

	return nil
}

// RecordFailure increments the failed-attempt counter server-side and
// returns the post-increment count. The $inc runs atomically so concurrent
// failed logins for the same email cannot undercount the lockout. When the
// new count reaches lockAfter the lock expiry is set to now+lockFor and
// returned.
func (r *ProfileRepo) RecordFailure(ctx context.Context, email string, lockAfter int, lockFor time.Duration) (int, *time.Time, error) {
	timer := utils.TrackDBOperation("update", "profiles")
	defer timer.ObserveDuration()

	filter := bson.M{"email": email}
	update := bson.M{"$inc": bson.M{"failed_login_attempts": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var state model.LoginAttemptState
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil, nil
		}
		utils.TrackError("database", "attempt_increment_failed")
		return 0, nil, fmt.Errorf("failed to record login failure: %w", err)
	}

	if state.FailedLoginAttempts < lockAfter {
		return state.FailedLoginAttempts, nil, nil
	}

	lockedUntil := time.Now().Add(lockFor)
	lock := bson.M{"$set": bson.M{"locked_until": lockedUntil}}
	if _, err := r.MongoCollection.UpdateOne(ctx, filter, lock); err != nil {
		utils.TrackError("database", "lockout_update_failed")
		return state.FailedLoginAttempts, nil, fmt.Errorf("failed to lock account: %w", err)
	}

	return state.FailedLoginAttempts, &lockedUntil, nil
}

func (r *ProfileRepo) AddProfile(ctx context.Context, profile *model.Profile) (interface{}, error) {
	timer := utils.TrackDBOperation("insert", "profiles")
	defer timer.ObserveDuration()

	if profile.Email == "" || profile.Password == "" {
		utils.TrackError("database", "invalid_profile_data")
		return nil, fmt.Errorf("email and password required")
	}

	result, err := r.MongoCollection.InsertOne(ctx, profile)
	if err != nil {
		utils.TrackError("database", "profile_creation_failed")
		return nil, fmt.Errorf("failed to add profile to database")
	}

	return result.InsertedID, nil
}
