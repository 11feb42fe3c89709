package model

import "time"

// Video 视频内容
type Video struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)"`
	OwnerID         string    `gorm:"type:varchar(36);not null;index:idx_video_owner_created"`
	Title           string    `gorm:"type:varchar(255);not null"`
	Description     string    `gorm:"type:text"`
	VideoURL        string    `gorm:"type:text"`
	ThumbnailURL    string    `gorm:"type:text"`
	DurationSeconds float64   `gorm:"not null;default:0"`
	ViewCount       int64     `gorm:"not null;default:0;index"`
	IsPublished     bool      `gorm:"not null;default:true;index"`
	CreatedAt       time.Time `gorm:"index:idx_video_owner_created"`
	UpdatedAt       time.Time
}

func (Video) TableName() string { return "videos" }
