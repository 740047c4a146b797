package dto

import "time"

type CreateCampaignRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Type        string                 `json:"type" binding:"required"`
	Message     string                 `json:"message" binding:"required"`
	Subject     string                 `json:"subject"`
	Metadata    map[string]interface{} `json:"metadata"`
	ScheduledAt *time.Time             `json:"scheduled_at"`
}

type UpdateCampaignStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
