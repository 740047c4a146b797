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

type ContactRepo struct {
	MongoCollection *mongo.Collection
}

func GetContactRepo(client *mongo.Client) *ContactRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("CONTACTS_COLLECTION", "contacts")
	return &ContactRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *ContactRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Contact, error) {
	timer := utils.TrackDBOperation("find", "contacts")
	defer timer.ObserveDuration()

	filter := bson.M{"owner_id": ownerID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "contact_list_failed")
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []model.Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		utils.TrackError("database", "contact_decode_failed")
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}

	return contacts, nil
}

func (r *ContactRepo) CreateContact(ctx context.Context, contact *model.Contact) error {
	timer := utils.TrackDBOperation("insert", "contacts")
	defer timer.ObserveDuration()

	if contact.OwnerID == "" || contact.Phone == "" {
		utils.TrackError("database", "invalid_contact_data")
		return fmt.Errorf("owner and phone required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, contact); err != nil {
		utils.TrackError("database", "contact_creation_failed")
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func (r *ContactRepo) UpdateContact(ctx context.Context, ownerID string, contact *model.Contact) (int64, error) {
	timer := utils.TrackDBOperation("update", "contacts")
	defer timer.ObserveDuration()

	filter := bson.M{"contact_id": contact.ContactID, "owner_id": ownerID}
	update := bson.M{
		"$set": bson.M{
			"first_name":    contact.FirstName,
			"last_name":     contact.LastName,
			"email":         contact.Email,
			"phone":         contact.Phone,
			"tags":          contact.Tags,
			"custom_fields": contact.CustomFields,
			"is_active":     contact.IsActive,
			"updated_at":    time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "contact_update_failed")
		return 0, fmt.Errorf("failed to update contact: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *ContactRepo) DeleteContact(ctx context.Context, ownerID, contactID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "contacts")
	defer timer.ObserveDuration()

	filter := bson.M{"contact_id": contactID, "owner_id": ownerID}
	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "contact_deletion_failed")
		return 0, fmt.Errorf("failed to delete contact: %w", err)
	}

	return result.DeletedCount, nil
}
