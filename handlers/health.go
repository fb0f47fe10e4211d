package handlers

import (
	"github.com/FRMWRKD/mooderi-sub001/utils"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "mooderi",
	})
}
