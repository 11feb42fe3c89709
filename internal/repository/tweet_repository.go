package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/internal/model"
)

type TweetRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*model.Tweet, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

type tweetRepository struct{ db *gorm.DB }

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*model.Tweet, error) {
	var res []*model.Tweet
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *tweetRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("owner_id = ?", ownerID).Count(&cnt).Error
	return cnt, err
}
