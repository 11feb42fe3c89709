package model

import "time"

// Tweet 短动态
type Tweet struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string    `gorm:"type:varchar(36);not null;index:idx_tweet_owner_created"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_tweet_owner_created"`
	UpdatedAt time.Time
}

func (Tweet) TableName() string { return "tweets" }
