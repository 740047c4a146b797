package model

import "time"

type Campaign struct {
	CampaignID     string                 `bson:"campaign_id" json:"campaign_id"`
	OwnerID        string                 `bson:"owner_id" json:"owner_id"`
	Name           string                 `bson:"name" json:"name" validate:"required"`
	Type           string                 `bson:"type" json:"type"` // sms, email, whatsapp
	Status         string                 `bson:"status" json:"status"`
	Message        string                 `bson:"message" json:"message"`
	Subject        string                 `bson:"subject,omitempty" json:"subject,omitempty"`
	RecipientCount int                    `bson:"recipient_count" json:"recipient_count"`
	SentCount      int                    `bson:"sent_count" json:"sent_count"`
	DeliveredCount int                    `bson:"delivered_count" json:"delivered_count"`
	FailedCount    int                    `bson:"failed_count" json:"failed_count"`
	Cost           float64                `bson:"cost" json:"cost"`
	Metadata       map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	ScheduledAt    *time.Time             `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	CreatedAt      time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updated_at"`
}
