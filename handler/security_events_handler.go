package handler

import (
	"strconv"

	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

const defaultEventLimit = 50

// GetSecurityEventsHandler returns recent audit events, newest first.
// Admin only; the role guard runs before this handler.
func GetSecurityEventsHandler(c *gin.Context, eventRepo *repository.SecurityEventRepo) {
	limit := int64(defaultEventLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 500 {
			utils.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	events, err := eventRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		utils.TrackError("security", "event_list_failed")
		utils.InternalError(c, "Failed to fetch security events")
		return
	}

	utils.Success(c, gin.H{
		"events": events,
		"count":  len(events),
	})
}
