package model

import "time"

// Playlist 用户播放列表
type Playlist struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string    `gorm:"type:varchar(36);not null;index:idx_playlist_owner_created"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index:idx_playlist_owner_created"`
	UpdatedAt   time.Time
}

func (Playlist) TableName() string { return "playlists" }

// PlaylistVideo 播放列表成员，Position 决定顺序
type PlaylistVideo struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	PlaylistID string `gorm:"type:varchar(36);not null;index:idx_pv_pair,unique;index:idx_pv_position"`
	VideoID    string `gorm:"type:varchar(36);not null;index:idx_pv_pair,unique"`
	// 同一视频在同一列表中至多出现一次
	Position  int64 `gorm:"not null;index:idx_pv_position"`
	CreatedAt time.Time
}

func (PlaylistVideo) TableName() string { return "playlist_videos" }
