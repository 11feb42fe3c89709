package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

// SubscriptionService 订阅关系的列表视图
type SubscriptionService interface {
	Subscribers(ctx context.Context, channelID string, p pagination.Params) (pagination.Page[Subscriber], error)
	SubscribedChannels(ctx context.Context, subscriberID string, p pagination.Params) (pagination.Page[SubscribedChannel], error)
}

type subscriptionService struct {
	users repository.UserRepository
	subs  repository.SubscriptionRepository
}

func NewSubscriptionService(users repository.UserRepository, subs repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{users: users, subs: subs}
}

func (s *subscriptionService) Subscribers(ctx context.Context, channelID string, p pagination.Params) (_ pagination.Page[Subscriber], err error) {
	ctx, span := startSpan(ctx, "SubscriptionService.Subscribers", attribute.String("channel.id", channelID))
	defer func() { endSpan(span, err) }()

	if err = s.mustExist(ctx, channelID, ErrChannelNotFound); err != nil {
		return pagination.Page[Subscriber]{}, err
	}
	total, err := s.subs.CountSubscribers(ctx, channelID)
	if err != nil {
		return pagination.Page[Subscriber]{}, storeErr("count subscribers", err)
	}
	rows, err := s.subs.ListSubscribers(ctx, channelID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[Subscriber]{}, storeErr("list subscribers", err)
	}
	return pagination.NewPage(Subscribers(rows), p, total), nil
}

func (s *subscriptionService) SubscribedChannels(ctx context.Context, subscriberID string, p pagination.Params) (_ pagination.Page[SubscribedChannel], err error) {
	ctx, span := startSpan(ctx, "SubscriptionService.SubscribedChannels", attribute.String("subscriber.id", subscriberID))
	defer func() { endSpan(span, err) }()

	if err = s.mustExist(ctx, subscriberID, ErrUserNotFound); err != nil {
		return pagination.Page[SubscribedChannel]{}, err
	}
	total, err := s.subs.CountSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return pagination.Page[SubscribedChannel]{}, storeErr("count subscriptions", err)
	}
	rows, err := s.subs.ListSubscribedChannels(ctx, subscriberID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[SubscribedChannel]{}, storeErr("list subscriptions", err)
	}
	counts, err := s.subs.CountByChannels(ctx, pluck(rows, func(r repository.SubscriberRow) string { return r.UserID }))
	if err != nil {
		return pagination.Page[SubscribedChannel]{}, storeErr("count channel subscribers", err)
	}
	return pagination.NewPage(SubscribedChannels(rows, counts), p, total), nil
}

func (s *subscriptionService) mustExist(ctx context.Context, userID string, notFound error) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return storeErr("load user", err)
	}
	if u == nil {
		return notFound
	}
	return nil
}
