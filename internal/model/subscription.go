package model

import (
	"time"
)

// Subscription 订阅关系（SubscriberID 订阅了频道 ChannelID）
type Subscription struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	SubscriberID string `gorm:"type:varchar(36);not null;index:idx_sub_pair,unique"`
	ChannelID    string `gorm:"type:varchar(36);not null;index:idx_sub_channel;index:idx_sub_pair,unique"`
	// 复合唯一键，同一对 (subscriber_id, channel_id) 至多一行
	// idx_sub_pair = (subscriber_id, channel_id)
	CreatedAt time.Time `gorm:"index:idx_sub_channel"`
}

func (Subscription) TableName() string { return "subscriptions" }
