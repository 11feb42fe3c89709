package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/internal/model"
)

// SubscriberRow 订阅记录 JOIN 用户后的投影
type SubscriberRow struct {
	SubscriptionID string
	SubscribedAt   time.Time
	UserID         string
	Username       string
	FullName       string
	Avatar         string
}

type SubscriptionRepository interface {
	// Toggle 存在则删除返回 false，不存在则创建返回 true
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountByChannel(ctx context.Context, channelID string) (int64, error)
	CountByChannels(ctx context.Context, channelIDs []string) (map[string]int64, error)
	// ListSubscribers 频道的订阅者（已删除的用户被 JOIN 过滤）
	ListSubscribers(ctx context.Context, channelID string, offset, limit int) ([]SubscriberRow, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	// ListSubscribedChannels 用户订阅的频道
	ListSubscribedChannels(ctx context.Context, subscriberID string, offset, limit int) ([]SubscriberRow, error)
	CountSubscribedChannels(ctx context.Context, subscriberID string) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	match := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID)
	}
	row := &model.Subscription{ID: uuid.New().String(), SubscriberID: subscriberID, ChannelID: channelID, CreatedAt: time.Now()}
	return toggleRow(ctx, r.db, match, &model.Subscription{}, row)
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *subscriptionRepository) CountByChannel(ctx context.Context, channelID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&cnt).Error
	return cnt, err
}

func (r *subscriptionRepository) CountByChannels(ctx context.Context, channelIDs []string) (map[string]int64, error) {
	if len(channelIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Select("channel_id AS group_key, COUNT(*) AS total").
		Where("channel_id IN ?", channelIDs).
		Group("channel_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID string, offset, limit int) ([]SubscriberRow, error) {
	return r.list(ctx, "s.channel_id = ?", "s.subscriber_id", channelID, offset, limit)
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, "s.channel_id = ?", "s.subscriber_id", channelID)
}

func (r *subscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, offset, limit int) ([]SubscriberRow, error) {
	return r.list(ctx, "s.subscriber_id = ?", "s.channel_id", subscriberID, offset, limit)
}

func (r *subscriptionRepository) CountSubscribedChannels(ctx context.Context, subscriberID string) (int64, error) {
	return r.count(ctx, "s.subscriber_id = ?", "s.channel_id", subscriberID)
}

// list 以 subject 过滤订阅记录，JOIN 对端用户（joinCol）
func (r *subscriptionRepository) list(ctx context.Context, where, joinCol, subject string, offset, limit int) ([]SubscriberRow, error) {
	var rows []SubscriberRow
	err := r.db.WithContext(ctx).
		Table("subscriptions AS s").
		Select("s.id AS subscription_id, s.created_at AS subscribed_at, u.id AS user_id, u.username, u.full_name, u.avatar").
		Joins("JOIN users u ON u.id = "+joinCol).
		Where(where, subject).
		Order("s.created_at DESC, s.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *subscriptionRepository) count(ctx context.Context, where, joinCol, subject string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("subscriptions AS s").
		Joins("JOIN users u ON u.id = "+joinCol).
		Where(where, subject).
		Count(&cnt).Error
	return cnt, err
}
