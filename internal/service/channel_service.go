package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

// ChannelService 频道仪表盘与频道视频
type ChannelService interface {
	Stats(ctx context.Context, channelID string) (*ChannelStats, error)
	Videos(ctx context.Context, channelID string, sort repository.Sort, p pagination.Params) (pagination.Page[ChannelVideo], error)
}

type channelService struct {
	users    repository.UserRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	subs     repository.SubscriptionRepository
	likes    repository.LikeRepository
}

func NewChannelService(
	users repository.UserRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	subs repository.SubscriptionRepository,
	likes repository.LikeRepository,
) ChannelService {
	return &channelService{users: users, videos: videos, comments: comments, subs: subs, likes: likes}
}

func (s *channelService) Stats(ctx context.Context, channelID string) (_ *ChannelStats, err error) {
	ctx, span := startSpan(ctx, "ChannelService.Stats", attribute.String("channel.id", channelID))
	defer func() { endSpan(span, err) }()

	channel, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		return nil, storeErr("load channel", err)
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}

	var (
		agg         repository.VideoAggregate
		likes, subs int64
		top         *model.Video
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (e error) {
		agg, e = s.videos.AggregateByOwner(gctx, channelID)
		return storeErr("aggregate videos", e)
	})
	g.Go(func() (e error) {
		likes, e = s.likes.CountForOwnerVideos(gctx, channelID)
		return storeErr("count likes", e)
	})
	g.Go(func() (e error) {
		subs, e = s.subs.CountByChannel(gctx, channelID)
		return storeErr("count subscribers", e)
	})
	g.Go(func() (e error) {
		top, e = s.videos.MostViewedByOwner(gctx, channelID)
		return storeErr("load most viewed video", e)
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	st := BuildChannelStats(channel, agg, likes, subs, top)
	return &st, nil
}

func (s *channelService) Videos(ctx context.Context, channelID string, sort repository.Sort, p pagination.Params) (_ pagination.Page[ChannelVideo], err error) {
	ctx, span := startSpan(ctx, "ChannelService.Videos", attribute.String("channel.id", channelID))
	defer func() { endSpan(span, err) }()

	if sort.Field != "" && !repository.ValidVideoSort(sort.Field) {
		return pagination.Page[ChannelVideo]{}, ErrInvalidSort
	}
	channel, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		return pagination.Page[ChannelVideo]{}, storeErr("load channel", err)
	}
	if channel == nil {
		return pagination.Page[ChannelVideo]{}, ErrChannelNotFound
	}

	total, err := s.videos.CountByOwner(ctx, channelID)
	if err != nil {
		return pagination.Page[ChannelVideo]{}, storeErr("count videos", err)
	}
	vs, err := s.videos.ListByOwner(ctx, channelID, sort, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[ChannelVideo]{}, storeErr("list videos", err)
	}

	videoIDs := pluck(vs, func(v *model.Video) string { return v.ID })
	var likes, comments map[string]int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (e error) {
		likes, e = s.likes.CountByTargets(gctx, model.TargetVideo, videoIDs)
		return storeErr("count likes", e)
	})
	g.Go(func() (e error) {
		comments, e = s.comments.CountByVideos(gctx, videoIDs)
		return storeErr("count comments", e)
	})
	if err = g.Wait(); err != nil {
		return pagination.Page[ChannelVideo]{}, err
	}

	return pagination.NewPage(ChannelVideos(vs, likes, comments), p, total), nil
}

// ParseSort 解析 sortBy / sortType；空值为 createdAt desc
func ParseSort(sortBy, sortType string) (repository.Sort, error) {
	sort := repository.Sort{Field: repository.SortCreatedAt}
	if sortBy != "" {
		sort.Field = repository.SortField(sortBy)
		if !repository.ValidVideoSort(sort.Field) {
			return repository.Sort{}, ErrInvalidSort
		}
	}
	switch strings.ToLower(sortType) {
	case "", "desc":
	case "asc":
		sort.Asc = true
	default:
		return repository.Sort{}, ErrInvalidSort
	}
	return sort, nil
}
