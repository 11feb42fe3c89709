package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/internal/model"
)

type CommentRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	// ListByVideo 按时间升序；作者已删除的评论被 JOIN 过滤
	ListByVideo(ctx context.Context, videoID string, offset, limit int) ([]*model.Comment, error)
	CountByVideo(ctx context.Context, videoID string) (int64, error)
	// CountByVideos 与 CountByVideo 口径一致，不计已删除作者的评论
	CountByVideos(ctx context.Context, videoIDs []string) (map[string]int64, error)
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *commentRepository) byVideo(ctx context.Context, videoID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Joins("JOIN users ON users.id = comments.owner_id").
		Where("comments.video_id = ?", videoID)
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID string, offset, limit int) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.byVideo(ctx, videoID).
		Select("comments.*").
		Order("comments.created_at ASC, comments.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *commentRepository) CountByVideo(ctx context.Context, videoID string) (int64, error) {
	var cnt int64
	err := r.byVideo(ctx, videoID).Count(&cnt).Error
	return cnt, err
}

func (r *commentRepository) CountByVideos(ctx context.Context, videoIDs []string) (map[string]int64, error) {
	if len(videoIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Joins("JOIN users ON users.id = comments.owner_id").
		Select("comments.video_id AS group_key, COUNT(*) AS total").
		Where("comments.video_id IN ?", videoIDs).
		Group("comments.video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}
