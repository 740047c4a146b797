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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CampaignRepo struct {
	MongoCollection *mongo.Collection
}

func GetCampaignRepo(client *mongo.Client) *CampaignRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("CAMPAIGNS_COLLECTION", "campaigns")
	return &CampaignRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// ListByOwner returns the owner's campaigns, newest first. The owner is
// either a platform user or a client profile; both key campaigns the same way.
func (r *CampaignRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Campaign, error) {
	timer := utils.TrackDBOperation("find", "campaigns")
	defer timer.ObserveDuration()

	filter := bson.M{"owner_id": ownerID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "campaign_list_failed")
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	var campaigns []model.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		utils.TrackError("database", "campaign_decode_failed")
		return nil, fmt.Errorf("failed to decode campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *CampaignRepo) CreateCampaign(ctx context.Context, campaign *model.Campaign) error {
	timer := utils.TrackDBOperation("insert", "campaigns")
	defer timer.ObserveDuration()

	if campaign.OwnerID == "" || campaign.Name == "" {
		utils.TrackError("database", "invalid_campaign_data")
		return fmt.Errorf("owner and name required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, campaign); err != nil {
		utils.TrackError("database", "campaign_creation_failed")
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, ownerID, campaignID, status string) (int64, error) {
	timer := utils.TrackDBOperation("update", "campaigns")
	defer timer.ObserveDuration()

	filter := bson.M{"campaign_id": campaignID, "owner_id": ownerID}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "campaign_update_failed")
		return 0, fmt.Errorf("failed to update campaign status: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *CampaignRepo) DeleteCampaign(ctx context.Context, ownerID, campaignID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "campaigns")
	defer timer.ObserveDuration()

	filter := bson.M{"campaign_id": campaignID, "owner_id": ownerID}
	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "campaign_deletion_failed")
		return 0, fmt.Errorf("failed to delete campaign: %w", err)
	}

	return result.DeletedCount, nil
}
