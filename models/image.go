package models

import (
	"time"

	"gorm.io/gorm"
)

const SourceTypeVideoImport = "video_import"

type Image struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageURL       string         `gorm:"type:varchar(1000);not null" json:"image_url"`
	Prompt         string         `gorm:"type:text" json:"prompt"`
	SourceVideoURL string         `gorm:"type:varchar(1000);index:idx_image_source_url,length:255" json:"source_video_url"`
	SourceType     string         `gorm:"type:varchar(30);default:video_import" json:"source_type"`
	VideoID        *uint          `gorm:"index" json:"video_id,omitempty"`
	UserID         *uint          `gorm:"index" json:"user_id,omitempty"`
	BoardID        *uint          `gorm:"index" json:"board_id,omitempty"`
	IsPublic       bool           `gorm:"default:true;index" json:"is_public"`
	Mood           string         `gorm:"type:varchar(50)" json:"mood"`
	Lighting       string         `gorm:"type:varchar(50)" json:"lighting"`
	Tags           string         `gorm:"type:text" json:"tags"`
	Colors         string         `gorm:"type:text" json:"colors"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
