package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username          string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password          string         `gorm:"type:varchar(255);not null" json:"-"`
	Nickname          string         `gorm:"type:varchar(100)" json:"nickname"`
	Avatar            string         `gorm:"type:varchar(255)" json:"avatar"`
	Credits           int            `gorm:"default:0" json:"credits"`
	ContributionCount int            `gorm:"default:0" json:"contribution_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
