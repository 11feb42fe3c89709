package model

import "time"

// User 用户 / 频道身份（本服务只读）
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Username  string `gorm:"type:varchar(64);uniqueIndex;not null"`
	FullName  string `gorm:"type:varchar(128)"`
	Email     string `gorm:"type:varchar(255);uniqueIndex"`
	Avatar    string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
