package handlers

import (
	"net/http"
	"strconv"

	"github.com/FRMWRKD/mooderi-sub001/utils"

	"github.com/gin-gonic/gin"
)

type SetVisibilityRequest struct {
	IsPublic *bool `json:"is_public" binding:"required"`
}

type BulkVisibilityRequest struct {
	ImageIDs []uint `json:"image_ids" binding:"required,min=1"`
	IsPublic *bool  `json:"is_public" binding:"required"`
}

// ListPublicImages is the open gallery feed, filterable by mood and
// lighting.
func ListPublicImages(c *gin.Context) {
	mood := c.Query("mood")
	lighting := c.Query("lighting")
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	out, err := getServices().Images.ListPublic(c.Request.Context(), mood, lighting, offset, limit)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func ListMyImages(c *gin.Context) {
	userID := c.GetUint("user_id")
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	out, err := getServices().Images.ListByUser(c.Request.Context(), userID, offset, limit)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func SetImageVisibility(c *gin.Context) {
	userID := c.GetUint("user_id")
	imageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid image id")
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if svcErr := getServices().Images.SetVisibility(c.Request.Context(), userID, uint(imageID), *req.IsPublic); respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, gin.H{"updated": true})
}

func SetImageVisibilityBulk(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req BulkVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if svcErr := getServices().Images.SetVisibilityBulk(c.Request.Context(), userID, req.ImageIDs, *req.IsPublic); respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, gin.H{"updated": len(req.ImageIDs)})
}
