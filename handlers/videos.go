package handlers

import (
	"net/http"
	"strconv"

	"github.com/FRMWRKD/mooderi-sub001/utils"

	"github.com/gin-gonic/gin"
)

func ListVideos(c *gin.Context) {
	userID := c.GetUint("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	videos, err := getServices().Videos.ListUserVideos(c.Request.Context(), userID, limit)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, videos)
}

func GetVideoDetail(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid video id")
		return
	}

	detail, svcErr := getServices().Videos.GetVideoDetail(c.Request.Context(), uint(videoID))
	if respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, detail)
}

func DeleteVideo(c *gin.Context) {
	userID := c.GetUint("user_id")
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid video id")
		return
	}
	deleteFrames := c.DefaultQuery("delete_frames", "false") == "true"

	if svcErr := getServices().Videos.DeleteVideo(c.Request.Context(), uint(videoID), userID, deleteFrames); respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, gin.H{"deleted": true})
}
