package handlers

import (
	"github.com/FRMWRKD/mooderi-sub001/utils"

	"github.com/gin-gonic/gin"
)

func GetShareProgress(c *gin.Context) {
	userID := c.GetUint("user_id")

	progress, err := getServices().Credits.GetShareProgress(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, progress)
}
