package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/internal/model"
)

// VideoFilter 公开视频流过滤条件；作者已删除的视频不出现
type VideoFilter struct {
	Query   string // 标题 / 描述子串，大小写不敏感
	OwnerID string
}

// VideoAggregate 频道视频的聚合值
type VideoAggregate struct {
	TotalVideos   int64
	TotalViews    int64
	TotalDuration float64
}

type VideoRepository interface {
	FindByID(ctx context.Context, id string) (*model.Video, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, v *model.Video) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	// IncrementViews 原子自增播放数
	IncrementViews(ctx context.Context, id string) error

	ListByOwner(ctx context.Context, ownerID string, sort Sort, offset, limit int) ([]*model.Video, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	ListPublished(ctx context.Context, f VideoFilter, sort Sort, offset, limit int) ([]*model.Video, error)
	CountPublished(ctx context.Context, f VideoFilter) (int64, error)

	AggregateByOwner(ctx context.Context, ownerID string) (VideoAggregate, error)
	MostViewedByOwner(ctx context.Context, ownerID string) (*model.Video, error)
}

type videoRepository struct{ db *gorm.DB }

func NewVideoRepository(db *gorm.DB) VideoRepository { return &videoRepository{db: db} }

func (r *videoRepository) FindByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *videoRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *videoRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Updates(fields).Error
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Video{}).Error
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID string, sort Sort, offset, limit int) ([]*model.Video, error) {
	var res []*model.Video
	err := r.db.WithContext(ctx).
		Where("videos.owner_id = ?", ownerID).
		Order(sort.orderVideos()).
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *videoRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("owner_id = ?", ownerID).Count(&cnt).Error
	return cnt, err
}

func (r *videoRepository) published(ctx context.Context, f VideoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("videos.is_published = ?", true)
	if f.OwnerID != "" {
		q = q.Where("videos.owner_id = ?", f.OwnerID)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where("(LOWER(videos.title) LIKE ? ESCAPE '\\' OR LOWER(videos.description) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	return q
}

func (r *videoRepository) ListPublished(ctx context.Context, f VideoFilter, sort Sort, offset, limit int) ([]*model.Video, error) {
	var res []*model.Video
	err := r.published(ctx, f).
		Select("videos.*").
		Order(sort.orderVideos()).
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *videoRepository) CountPublished(ctx context.Context, f VideoFilter) (int64, error) {
	var cnt int64
	err := r.published(ctx, f).Count(&cnt).Error
	return cnt, err
}

func (r *videoRepository) AggregateByOwner(ctx context.Context, ownerID string) (VideoAggregate, error) {
	var agg VideoAggregate
	err := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Select("COUNT(*) AS total_videos, COALESCE(SUM(view_count), 0) AS total_views, COALESCE(SUM(duration_seconds), 0) AS total_duration").
		Where("owner_id = ?", ownerID).
		Scan(&agg).Error
	return agg, err
}

func (r *videoRepository) MostViewedByOwner(ctx context.Context, ownerID string) (*model.Video, error) {
	var v model.Video
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("view_count DESC, id ASC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
