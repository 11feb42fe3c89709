package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/internal/model"
)

// LikedVideoRow 点赞记录 JOIN 视频后的投影
type LikedVideoRow struct {
	LikeID  string
	LikedAt time.Time
	model.Video
}

type LikeRepository interface {
	Toggle(ctx context.Context, userID string, target model.LikeTarget) (bool, error)
	Exists(ctx context.Context, userID string, target model.LikeTarget) (bool, error)
	CountByTarget(ctx context.Context, target model.LikeTarget) (int64, error)
	CountByTargets(ctx context.Context, kind model.TargetKind, ids []string) (map[string]int64, error)
	// CountForOwnerVideos 某频道全部视频获得的点赞总数
	CountForOwnerVideos(ctx context.Context, ownerID string) (int64, error)
	// ListLikedVideos 用户点赞过且仍存在的视频
	ListLikedVideos(ctx context.Context, userID string, offset, limit int) ([]LikedVideoRow, error)
	CountLikedVideos(ctx context.Context, userID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Toggle(ctx context.Context, userID string, target model.LikeTarget) (bool, error) {
	match := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID)
	}
	row := &model.Like{ID: uuid.New().String(), UserID: userID, TargetKind: target.Kind, TargetID: target.ID, CreatedAt: time.Now()}
	return toggleRow(ctx, r.db, match, &model.Like{}, row)
}

func (r *likeRepository) Exists(ctx context.Context, userID string, target model.LikeTarget) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, target model.LikeTarget) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) CountByTargets(ctx context.Context, kind model.TargetKind, ids []string) (map[string]int64, error) {
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Select("target_id AS group_key, COUNT(*) AS total").
		Where("target_kind = ? AND target_id IN ?", kind, ids).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *likeRepository) CountForOwnerVideos(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("likes AS l").
		Joins("JOIN videos v ON v.id = l.target_id").
		Where("l.target_kind = ? AND v.owner_id = ?", model.TargetVideo, ownerID).
		Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) ListLikedVideos(ctx context.Context, userID string, offset, limit int) ([]LikedVideoRow, error) {
	var rows []LikedVideoRow
	err := r.db.WithContext(ctx).
		Table("likes AS l").
		Select("l.id AS like_id, l.created_at AS liked_at, v.*").
		Joins("JOIN videos v ON v.id = l.target_id").
		Where("l.user_id = ? AND l.target_kind = ?", userID, model.TargetVideo).
		Order("l.created_at DESC, l.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *likeRepository) CountLikedVideos(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("likes AS l").
		Joins("JOIN videos v ON v.id = l.target_id").
		Where("l.user_id = ? AND l.target_kind = ?", userID, model.TargetVideo).
		Count(&cnt).Error
	return cnt, err
}
