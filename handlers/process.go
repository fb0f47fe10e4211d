package handlers

import (
	"net/http"

	"github.com/FRMWRKD/mooderi-sub001/services"
	"github.com/FRMWRKD/mooderi-sub001/utils"

	"github.com/gin-gonic/gin"
)

type StartProcessingRequest struct {
	URL         string `json:"url" binding:"required"`
	QualityMode string `json:"quality_mode"`
}

type RejectFramesRequest struct {
	JobID string `json:"job_id" binding:"required"`
}

type ApproveFramesRequest struct {
	JobID        string   `json:"job_id" binding:"required"`
	ApprovedURLs []string `json:"approved_urls"`
	VideoURL     string   `json:"video_url"`
	IsPublic     *bool    `json:"is_public"`
	BoardID      *uint    `json:"board_id"`
}

// StartProcessing accepts a video URL and returns a job id immediately.
// Extraction runs detached; clients poll JobStatus for progress.
func StartProcessing(c *gin.Context) {
	var req StartProcessingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	out, err := getServices().Processing.StartJob(c.Request.Context(), services.StartJobInput{
		VideoURL:    req.URL,
		QualityMode: req.QualityMode,
		UserID:      optionalUserID(c),
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func JobStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	view, err := getServices().Processing.GetStatus(c.Request.Context(), jobID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, view)
}

// PendingFrames returns the candidate frames for a job awaiting approval.
func PendingFrames(c *gin.Context) {
	jobID := c.Param("job_id")

	payload, err := getServices().Processing.GetApprovalPayload(c.Request.Context(), jobID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, payload)
}

func ApproveFrames(c *gin.Context) {
	var req ApproveFramesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	out, err := getServices().Approval.Approve(c.Request.Context(), services.ApproveInput{
		JobID:        req.JobID,
		ApprovedURLs: req.ApprovedURLs,
		VideoURL:     req.VideoURL,
		IsPublic:     isPublic,
		BoardID:      req.BoardID,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func RejectFrames(c *gin.Context) {
	var req RejectFramesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := getServices().Processing.RejectFrames(c.Request.Context(), req.JobID); respondServiceError(c, err) {
		return
	}

	utils.Success(c, gin.H{
		"job_id":  req.JobID,
		"message": "All frames rejected, no images were saved",
	})
}
