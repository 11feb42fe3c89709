package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/vidhub/internal/model"
)

type PlaylistRepository interface {
	Create(ctx context.Context, p *model.Playlist) error
	// FindByID 不存在时返回 nil, nil
	FindByID(ctx context.Context, id string) (*model.Playlist, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete 同时删除成员行
	Delete(ctx context.Context, id string) error

	// AddVideo 追加到列表末尾；已存在返回 ErrAlreadyMember
	AddVideo(ctx context.Context, playlistID, videoID string) error
	// RemoveVideo 不存在返回 ErrNotMember
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	HasVideo(ctx context.Context, playlistID, videoID string) (bool, error)
	// ListVideos 按 position 排序，已删除的视频被 JOIN 过滤
	ListVideos(ctx context.Context, playlistID string) ([]*model.Video, error)

	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*model.Playlist, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	// CountVideos 每个列表中仍存在的视频数
	CountVideos(ctx context.Context, playlistIDs []string) (map[string]int64, error)
}

type playlistRepository struct{ db *gorm.DB }

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository { return &playlistRepository{db: db} }

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *playlistRepository) FindByID(ctx context.Context, id string) (*model.Playlist, error) {
	var p model.Playlist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playlistRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Playlist{}).Where("id = ?", id).Updates(fields).Error
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Playlist{}).Error
	})
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&model.PlaylistVideo{}).
			Select("COALESCE(MAX(position), 0)").
			Where("playlist_id = ?", playlistID).
			Scan(&last).Error; err != nil {
			return err
		}
		row := &model.PlaylistVideo{
			ID:         uuid.New().String(),
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   last + 1,
			CreatedAt:  time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyMember
		}
		return tx.Model(&model.Playlist{}).Where("id = ?", playlistID).Update("updated_at", time.Now()).Error
	})
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotMember
	}
	return nil
}

func (r *playlistRepository) HasVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *playlistRepository) ListVideos(ctx context.Context, playlistID string) ([]*model.Video, error) {
	var res []*model.Video
	err := r.db.WithContext(ctx).
		Table("playlist_videos AS pv").
		Select("v.*").
		Joins("JOIN videos v ON v.id = pv.video_id").
		Where("pv.playlist_id = ?", playlistID).
		Order("pv.position ASC, pv.id ASC").
		Scan(&res).Error
	return res, err
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*model.Playlist, error) {
	var res []*model.Playlist
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *playlistRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("owner_id = ?", ownerID).Count(&cnt).Error
	return cnt, err
}

func (r *playlistRepository) CountVideos(ctx context.Context, playlistIDs []string) (map[string]int64, error) {
	if len(playlistIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Table("playlist_videos AS pv").
		Select("pv.playlist_id AS group_key, COUNT(*) AS total").
		Joins("JOIN videos v ON v.id = pv.video_id").
		Where("pv.playlist_id IN ?", playlistIDs).
		Group("pv.playlist_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}
