package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/vidhub/internal/metrics"
	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/pkg/errcode"
	"github.com/d60-Lab/vidhub/pkg/logger"
)

// ToggleResult 切换后的状态
type ToggleResult struct {
	Active bool `json:"active"`
}

// EngagementService 订阅 / 点赞切换
type EngagementService interface {
	ToggleSubscription(ctx context.Context, actorID, channelID string) (ToggleResult, error)
	ToggleLike(ctx context.Context, actorID string, target model.LikeTarget) (ToggleResult, error)
}

type engagementService struct {
	users    repository.UserRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
	subs     repository.SubscriptionRepository
	likes    repository.LikeRepository
}

func NewEngagementService(
	users repository.UserRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
	subs repository.SubscriptionRepository,
	likes repository.LikeRepository,
) EngagementService {
	return &engagementService{users: users, videos: videos, comments: comments, tweets: tweets, subs: subs, likes: likes}
}

func (s *engagementService) ToggleSubscription(ctx context.Context, actorID, channelID string) (ToggleResult, error) {
	const relation = "subscription"
	if actorID == channelID {
		metrics.ObserveToggle(relation, metrics.ResultRejected)
		return ToggleResult{}, ErrSelfSubscription
	}
	if err := s.assertActor(ctx, relation, actorID); err != nil {
		return ToggleResult{}, err
	}
	channel, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		return ToggleResult{}, s.fail(relation, storeErr("load channel", err))
	}
	if channel == nil {
		metrics.ObserveToggle(relation, metrics.ResultRejected)
		return ToggleResult{}, ErrChannelNotFound
	}

	active, err := s.subs.Toggle(ctx, actorID, channelID)
	if err != nil {
		return ToggleResult{}, s.fail(relation, toggleErr(err))
	}
	s.observe(relation, active, zap.String("subscriber_id", actorID), zap.String("channel_id", channelID))
	return ToggleResult{Active: active}, nil
}

func (s *engagementService) ToggleLike(ctx context.Context, actorID string, target model.LikeTarget) (ToggleResult, error) {
	relation := "like_" + string(target.Kind)
	if err := s.assertActor(ctx, relation, actorID); err != nil {
		return ToggleResult{}, err
	}
	if err := s.assertTarget(ctx, target); err != nil {
		if errcode.KindOf(err) == errcode.KindDependency {
			return ToggleResult{}, s.fail(relation, err)
		}
		metrics.ObserveToggle(relation, metrics.ResultRejected)
		return ToggleResult{}, err
	}

	active, err := s.likes.Toggle(ctx, actorID, target)
	if err != nil {
		return ToggleResult{}, s.fail(relation, toggleErr(err))
	}
	s.observe(relation, active, zap.String("user_id", actorID), zap.Stringer("target", target))
	return ToggleResult{Active: active}, nil
}

// assertActor 令牌对应的用户可能已被删除
func (s *engagementService) assertActor(ctx context.Context, relation, actorID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return s.fail(relation, storeErr("load user", err))
	}
	if actor == nil {
		metrics.ObserveToggle(relation, metrics.ResultRejected)
		return ErrUserNotFound
	}
	return nil
}

// assertTarget 点赞目标必须存在
func (s *engagementService) assertTarget(ctx context.Context, target model.LikeTarget) error {
	var (
		ok       bool
		err      error
		notFound error
	)
	switch target.Kind {
	case model.TargetVideo:
		ok, err = s.videos.Exists(ctx, target.ID)
		notFound = ErrVideoNotFound
	case model.TargetComment:
		ok, err = s.comments.Exists(ctx, target.ID)
		notFound = ErrCommentNotFound
	case model.TargetTweet:
		ok, err = s.tweets.Exists(ctx, target.ID)
		notFound = ErrTweetNotFound
	default:
		return errcode.InvalidArgument("unknown like target")
	}
	if err != nil {
		return storeErr("load like target", err)
	}
	if !ok {
		return notFound
	}
	return nil
}

func (s *engagementService) observe(relation string, active bool, fields ...zap.Field) {
	result := metrics.ResultInactive
	if active {
		result = metrics.ResultActive
	}
	metrics.ObserveToggle(relation, result)
	logger.Debug("toggled "+relation, append(fields, zap.Bool("active", active))...)
}

func (s *engagementService) fail(relation string, err error) error {
	if errors.Is(err, ErrToggleConflict) {
		metrics.ObserveToggle(relation, metrics.ResultConflict)
		logger.Warn("toggle lost race", zap.String("relation", relation))
		return err
	}
	metrics.ObserveToggle(relation, metrics.ResultError)
	return err
}

func toggleErr(err error) error {
	if errors.Is(err, repository.ErrToggleConflict) {
		return ErrToggleConflict
	}
	return storeErr("toggle relationship", err)
}
