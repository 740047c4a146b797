package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"main/model"
	"main/services"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ClientProfileRepo struct {
	MongoCollection *mongo.Collection
}

func GetClientProfileRepo(client *mongo.Client) *ClientProfileRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("CLIENT_PROFILES_COLLECTION", "client_profiles")
	return &ClientProfileRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// Authenticate looks up an active client profile by email or phone and
// verifies the password. A missing row or a wrong password both return
// (nil, nil) so the caller cannot distinguish them.
func (r *ClientProfileRepo) Authenticate(ctx context.Context, identifier, password string) (*model.ClientProfile, error) {
	timer := utils.TrackDBOperation("find", "client_profiles")
	defer timer.ObserveDuration()

	filter := bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"email": identifier},
			{"phone": identifier},
		},
	}

	var profile model.ClientProfile
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "client_profile_lookup_error")
		log.Println("Error finding client profile:", err)
		return nil, err
	}

	match, err := services.VerifyPassword(profile.Password, password)
	if err != nil || !match {
		return nil, nil
	}

	return &profile, nil
}

func (r *ClientProfileRepo) UpdateLastLogin(ctx context.Context, clientID string) error {
	timer := utils.TrackDBOperation("update", "client_profiles")
	defer timer.ObserveDuration()

	filter := bson.M{"client_id": clientID}
	update := bson.M{"$set": bson.M{"last_login": time.Now()}}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "client_last_login_failed")
		return fmt.Errorf("failed to update client last login: %w", err)
	}

	return nil
}

func (r *ClientProfileRepo) AddClientProfile(ctx context.Context, profile *model.ClientProfile) (interface{}, error) {
	timer := utils.TrackDBOperation("insert", "client_profiles")
	defer timer.ObserveDuration()

	if profile.ClientName == "" || profile.Password == "" {
		utils.TrackError("database", "invalid_client_profile_data")
		return nil, fmt.Errorf("client name and password required")
	}

	result, err := r.MongoCollection.InsertOne(ctx, profile)
	if err != nil {
		utils.TrackError("database", "client_profile_creation_failed")
		return nil, fmt.Errorf("failed to add client profile to database")
	}

	return result.InsertedID, nil
}
