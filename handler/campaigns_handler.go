package handler

import (
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetCampaignsHandler(c *gin.Context, campaignRepo *repository.CampaignRepo) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.Unauthorized(c, "No authenticated user found")
		return
	}

	campaigns, err := campaignRepo.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch campaigns")
		return
	}

	utils.Success(c, gin.H{"campaigns": campaigns})
}

func CreateCampaignHandler(c *gin.Context, campaignRepo *repository.CampaignRepo) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.Unauthorized(c, "No authenticated user found")
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	now := time.Now()
	campaign := &model.Campaign{
		CampaignID:  uuid.New().String(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Type:        req.Type,
		Status:      "draft",
		Message:     req.Message,
		Subject:     req.Subject,
		Metadata:    req.Metadata,
		ScheduledAt: req.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := campaignRepo.CreateCampaign(c.Request.Context(), campaign); err != nil {
		utils.InternalError(c, "Failed to create campaign")
		return
	}

	utils.Created(c, campaign)
}

func UpdateCampaignStatusHandler(c *gin.Context, campaignRepo *repository.CampaignRepo) {
	ownerID := c.GetString("user_id")
	campaignID := c.Param("id")

	var req dto.UpdateCampaignStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	modified, err := campaignRepo.UpdateStatus(c.Request.Context(), ownerID, campaignID, req.Status)
	if err != nil {
		utils.InternalError(c, "Failed to update campaign")
		return
	}
	if modified == 0 {
		utils.NotFound(c, "Campaign not found")
		return
	}

	utils.Success(c, gin.H{"message": "Campaign updated"})
}

func DeleteCampaignHandler(c *gin.Context, campaignRepo *repository.CampaignRepo) {
	ownerID := c.GetString("user_id")
	campaignID := c.Param("id")

	deleted, err := campaignRepo.DeleteCampaign(c.Request.Context(), ownerID, campaignID)
	if err != nil {
		utils.InternalError(c, "Failed to delete campaign")
		return
	}
	if deleted == 0 {
		utils.NotFound(c, "Campaign not found")
		return
	}

	utils.Success(c, gin.H{"message": "Campaign deleted"})
}
