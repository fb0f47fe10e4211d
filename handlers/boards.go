package handlers

import (
	"net/http"
	"strconv"

	"github.com/FRMWRKD/mooderi-sub001/services"
	"github.com/FRMWRKD/mooderi-sub001/utils"

	"github.com/gin-gonic/gin"
)

type BoardRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type BoardImageRequest struct {
	ImageID uint `json:"image_id" binding:"required"`
}

func CreateBoard(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	board, err := getServices().Boards.CreateBoard(c.Request.Context(), userID, services.BoardInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, board)
}

func ListBoards(c *gin.Context) {
	userID := c.GetUint("user_id")

	boards, err := getServices().Boards.ListBoards(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, boards)
}

func GetBoard(c *gin.Context) {
	userID := c.GetUint("user_id")
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid board id")
		return
	}

	board, svcErr := getServices().Boards.GetBoard(c.Request.Context(), userID, uint(boardID))
	if respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, board)
}

func UpdateBoard(c *gin.Context) {
	userID := c.GetUint("user_id")
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid board id")
		return
	}

	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	board, svcErr := getServices().Boards.UpdateBoard(c.Request.Context(), userID, uint(boardID), services.BoardInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, board)
}

func DeleteBoard(c *gin.Context) {
	userID := c.GetUint("user_id")
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid board id")
		return
	}

	if svcErr := getServices().Boards.DeleteBoard(c.Request.Context(), userID, uint(boardID)); respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, gin.H{"deleted": true})
}

func AddImageToBoard(c *gin.Context) {
	userID := c.GetUint("user_id")
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid board id")
		return
	}

	var req BoardImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if svcErr := getServices().Boards.AddImage(c.Request.Context(), userID, uint(boardID), req.ImageID); respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, gin.H{"added": true})
}

func RemoveImageFromBoard(c *gin.Context) {
	userID := c.GetUint("user_id")
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid board id")
		return
	}
	imageID, err := strconv.ParseUint(c.Param("image_id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if svcErr := getServices().Boards.RemoveImage(c.Request.Context(), userID, uint(boardID), uint(imageID)); respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, gin.H{"removed": true})
}
