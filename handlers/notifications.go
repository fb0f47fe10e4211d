package handlers

import (
	"net/http"
	"strconv"

	"github.com/FRMWRKD/mooderi-sub001/utils"

	"github.com/gin-gonic/gin"
)

type MarkNotificationsReadRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

func ListNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := getServices().Notifications.ListNotifications(c.Request.Context(), userID, limit)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, notifications)
}

func MarkNotificationsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req MarkNotificationsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if svcErr := getServices().Notifications.MarkRead(c.Request.Context(), userID, req.IDs); respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, gin.H{"marked": len(req.IDs)})
}
