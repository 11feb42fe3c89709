package model

import "time"

// Comment 视频评论
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	VideoID   string    `gorm:"type:varchar(36);not null;index:idx_comment_video_created"`
	OwnerID   string    `gorm:"type:varchar(36);not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_comment_video_created"`
	UpdatedAt time.Time
}

func (Comment) TableName() string { return "comments" }
