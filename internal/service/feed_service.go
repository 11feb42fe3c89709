package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

// FeedService 评论流与动态流
type FeedService interface {
	// VideoComments 按时间升序
	VideoComments(ctx context.Context, videoID string, p pagination.Params) (pagination.Page[Post], error)
	UserTweets(ctx context.Context, userID string, p pagination.Params) (pagination.Page[Post], error)
}

type feedService struct {
	users    repository.UserRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
	likes    repository.LikeRepository
}

func NewFeedService(
	users repository.UserRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
	likes repository.LikeRepository,
) FeedService {
	return &feedService{users: users, videos: videos, comments: comments, tweets: tweets, likes: likes}
}

func (s *feedService) VideoComments(ctx context.Context, videoID string, p pagination.Params) (_ pagination.Page[Post], err error) {
	ctx, span := startSpan(ctx, "FeedService.VideoComments", attribute.String("video.id", videoID))
	defer func() { endSpan(span, err) }()

	ok, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return pagination.Page[Post]{}, storeErr("load video", err)
	}
	if !ok {
		return pagination.Page[Post]{}, ErrVideoNotFound
	}

	total, err := s.comments.CountByVideo(ctx, videoID)
	if err != nil {
		return pagination.Page[Post]{}, storeErr("count comments", err)
	}
	cs, err := s.comments.ListByVideo(ctx, videoID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[Post]{}, storeErr("list comments", err)
	}
	owners, err := s.users.FindByIDs(ctx, pluck(cs, func(c *model.Comment) string { return c.OwnerID }))
	if err != nil {
		return pagination.Page[Post]{}, storeErr("load owners", err)
	}
	likes, err := s.likes.CountByTargets(ctx, model.TargetComment, pluck(cs, func(c *model.Comment) string { return c.ID }))
	if err != nil {
		return pagination.Page[Post]{}, storeErr("count likes", err)
	}
	return pagination.NewPage(Comments(cs, owners, likes), p, total), nil
}

func (s *feedService) UserTweets(ctx context.Context, userID string, p pagination.Params) (_ pagination.Page[Post], err error) {
	ctx, span := startSpan(ctx, "FeedService.UserTweets", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return pagination.Page[Post]{}, storeErr("load user", err)
	}
	if owner == nil {
		return pagination.Page[Post]{}, ErrUserNotFound
	}

	total, err := s.tweets.CountByOwner(ctx, userID)
	if err != nil {
		return pagination.Page[Post]{}, storeErr("count tweets", err)
	}
	ts, err := s.tweets.ListByOwner(ctx, userID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[Post]{}, storeErr("list tweets", err)
	}
	likes, err := s.likes.CountByTargets(ctx, model.TargetTweet, pluck(ts, func(t *model.Tweet) string { return t.ID }))
	if err != nil {
		return pagination.Page[Post]{}, storeErr("count likes", err)
	}
	return pagination.NewPage(Tweets(ts, owner, likes), p, total), nil
}
