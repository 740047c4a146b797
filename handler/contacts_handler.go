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

func GetContactsHandler(c *gin.Context, contactRepo *repository.ContactRepo) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.Unauthorized(c, "No authenticated user found")
		return
	}

	contacts, err := contactRepo.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch contacts")
		return
	}

	utils.Success(c, gin.H{"contacts": contacts})
}

func CreateContactHandler(c *gin.Context, contactRepo *repository.ContactRepo) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		utils.Unauthorized(c, "No authenticated user found")
		return
	}

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	now := time.Now()
	contact := &model.Contact{
		ContactID:    uuid.New().String(),
		OwnerID:      ownerID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Tags:         req.Tags,
		CustomFields: req.CustomFields,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := contactRepo.CreateContact(c.Request.Context(), contact); err != nil {
		utils.InternalError(c, "Failed to create contact")
		return
	}

	utils.Created(c, contact)
}

func UpdateContactHandler(c *gin.Context, contactRepo *repository.ContactRepo) {
	ownerID := c.GetString("user_id")
	contactID := c.Param("id")

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	contact := &model.Contact{
		ContactID:    contactID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Tags:         req.Tags,
		CustomFields: req.CustomFields,
		IsActive:     true,
	}

	modified, err := contactRepo.UpdateContact(c.Request.Context(), ownerID, contact)
	if err != nil {
		utils.InternalError(c, "Failed to update contact")
		return
	}
	if modified == 0 {
		utils.NotFound(c, "Contact not found")
		return
	}

	utils.Success(c, gin.H{"message": "Contact updated"})
}

func DeleteContactHandler(c *gin.Context, contactRepo *repository.ContactRepo) {
	ownerID := c.GetString("user_id")
	contactID := c.Param("id")

	deleted, err := contactRepo.DeleteContact(c.Request.Context(), ownerID, contactID)
	if err != nil {
		utils.InternalError(c, "Failed to delete contact")
		return
	}
	if deleted == 0 {
		utils.NotFound(c, "Contact not found")
		return
	}

	utils.Success(c, gin.H{"message": "Contact deleted"})
}
