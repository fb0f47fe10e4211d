package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Status vocabulary shared by the in-memory job record and the durable video row.
const (
	VideoStatusQueued          = "queued"
	VideoStatusProcessing      = "processing"
	VideoStatusPendingApproval = "pending_approval"
	VideoStatusCompleted       = "completed"
	VideoStatusFailed          = "failed"
)

const (
	QualityStrict = "strict"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

type Video struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	URL          string         `gorm:"type:varchar(1000);not null;index:idx_video_url,length:255" json:"url"`
	Title        string         `gorm:"type:varchar(255)" json:"title"`
	ThumbnailURL string         `gorm:"type:varchar(1000)" json:"thumbnail_url"`
	QualityMode  string         `gorm:"type:varchar(20);default:medium" json:"quality_mode"`
	Status       string         `gorm:"type:varchar(20);default:queued;index" json:"status"`
	FrameCount   int            `gorm:"default:0" json:"frame_count"`
	Metadata     string         `gorm:"type:text" json:"-"`
	UserID       *uint          `gorm:"index" json:"user_id,omitempty"`
	IsPublic     bool           `gorm:"default:true" json:"is_public"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// VideoMetadata is the recovery snapshot persisted alongside each status
// transition so job status can be rebuilt after a restart.
type VideoMetadata struct {
	SelectedFrames []string `json:"selected_frames,omitempty"`
	RejectedFrames []string `json:"rejected_frames,omitempty"`
	Error          string   `json:"error,omitempty"`
}

func (v *Video) DecodeMetadata() VideoMetadata {
	var meta VideoMetadata
	if v.Metadata == "" {
		return meta
	}
	if err := json.Unmarshal([]byte(v.Metadata), &meta); err != nil {
		return VideoMetadata{}
	}
	return meta
}

func (m VideoMetadata) Encode() string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}
