package model

import (
	"fmt"
	"time"
)

// TargetKind 点赞目标类型
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// ParseTargetKind 校验目标类型字符串
func ParseTargetKind(s string) (TargetKind, error) {
	switch k := TargetKind(s); k {
	case TargetVideo, TargetComment, TargetTweet:
		return k, nil
	}
	return "", fmt.Errorf("unknown like target kind %q", s)
}

// LikeTarget 点赞目标：Video(id) | Comment(id) | Tweet(id)
type LikeTarget struct {
	Kind TargetKind
	ID   string
}

func VideoTarget(id string) LikeTarget   { return LikeTarget{Kind: TargetVideo, ID: id} }
func CommentTarget(id string) LikeTarget { return LikeTarget{Kind: TargetComment, ID: id} }
func TweetTarget(id string) LikeTarget   { return LikeTarget{Kind: TargetTweet, ID: id} }

func (t LikeTarget) String() string { return string(t.Kind) + ":" + t.ID }

// Like 点赞关系
type Like struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `gorm:"type:varchar(36);not null;index:idx_like_user_created;index:idx_like_key,unique"`
	TargetKind TargetKind `gorm:"type:varchar(16);not null;index:idx_like_key,unique;index:idx_like_target"`
	TargetID   string     `gorm:"type:varchar(36);not null;index:idx_like_key,unique;index:idx_like_target"`
	// 复合唯一键，同一用户对同一目标至多一行
	// idx_like_key = (user_id, target_kind, target_id)
	CreatedAt time.Time `gorm:"index:idx_like_user_created"`
}

func (Like) TableName() string { return "likes" }

// Target 返回点赞目标
func (l Like) Target() LikeTarget { return LikeTarget{Kind: l.TargetKind, ID: l.TargetID} }
