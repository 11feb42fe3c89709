package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/vidhub/internal/media"
	"github.com/d60-Lab/vidhub/internal/metrics"
	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/pkg/errcode"
	"github.com/d60-Lab/vidhub/pkg/logger"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

// PublishInput 发布视频
type PublishInput struct {
	OwnerID     string
	Title       string
	Description string
	Video       *media.Upload
	Thumbnail   *media.Upload
}

// UpdateVideoInput nil 字段保持不变
type UpdateVideoInput struct {
	Title       *string
	Description *string
	Thumbnail   *media.Upload
}

// VideoService 视频流、详情与生命周期
type VideoService interface {
	PublicVideos(ctx context.Context, f repository.VideoFilter, sort repository.Sort, p pagination.Params) (pagination.Page[VideoSummary], error)
	// Detail viewerID 为空表示匿名访问；非作者访问会使播放数 +1
	Detail(ctx context.Context, videoID, viewerID string) (*VideoDetail, error)

	Publish(ctx context.Context, in PublishInput) (*VideoSummary, error)
	UpdateDetails(ctx context.Context, videoID, actorID string, in UpdateVideoInput) (*VideoSummary, error)
	TogglePublish(ctx context.Context, videoID, actorID string) (*VideoSummary, error)
	Delete(ctx context.Context, videoID, actorID string) error
}

type videoService struct {
	users  repository.UserRepository
	videos repository.VideoRepository
	subs   repository.SubscriptionRepository
	likes  repository.LikeRepository
	store  media.Store
}

func NewVideoService(
	users repository.UserRepository,
	videos repository.VideoRepository,
	subs repository.SubscriptionRepository,
	likes repository.LikeRepository,
	store media.Store,
) VideoService {
	return &videoService{users: users, videos: videos, subs: subs, likes: likes, store: store}
}

func (s *videoService) PublicVideos(ctx context.Context, f repository.VideoFilter, sort repository.Sort, p pagination.Params) (_ pagination.Page[VideoSummary], err error) {
	ctx, span := startSpan(ctx, "VideoService.PublicVideos", attribute.String("query", f.Query), attribute.String("owner.id", f.OwnerID))
	defer func() { endSpan(span, err) }()

	if sort.Field != "" && !repository.ValidVideoSort(sort.Field) {
		return pagination.Page[VideoSummary]{}, ErrInvalidSort
	}
	if f.OwnerID != "" {
		owner, err := s.users.FindByID(ctx, f.OwnerID)
		if err != nil {
			return pagination.Page[VideoSummary]{}, storeErr("load owner", err)
		}
		if owner == nil {
			return pagination.Page[VideoSummary]{}, ErrUserNotFound
		}
	}

	total, err := s.videos.CountPublished(ctx, f)
	if err != nil {
		return pagination.Page[VideoSummary]{}, storeErr("count videos", err)
	}
	vs, err := s.videos.ListPublished(ctx, f, sort, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[VideoSummary]{}, storeErr("list videos", err)
	}
	owners, err := s.users.FindByIDs(ctx, pluck(vs, func(v *model.Video) string { return v.OwnerID }))
	if err != nil {
		return pagination.Page[VideoSummary]{}, storeErr("load owners", err)
	}
	return pagination.NewPage(SummarizeVideos(vs, owners), p, total), nil
}

func (s *videoService) Detail(ctx context.Context, videoID, viewerID string) (_ *VideoDetail, err error) {
	ctx, span := startSpan(ctx, "VideoService.Detail", attribute.String("video.id", videoID))
	defer func() { endSpan(span, err) }()

	v, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, storeErr("load video", err)
	}
	// 未发布视频仅作者可见
	if v == nil || (!v.IsPublished && v.OwnerID != viewerID) {
		return nil, ErrVideoNotFound
	}

	// 作者已删除时不计播放
	owner, err := s.users.FindByID(ctx, v.OwnerID)
	if err != nil {
		return nil, storeErr("load owner", err)
	}
	if owner == nil {
		return nil, ErrVideoNotFound
	}

	if viewerID != v.OwnerID {
		if err := s.videos.IncrementViews(ctx, videoID); err != nil {
			return nil, storeErr("increment views", err)
		}
		v.ViewCount++
		metrics.VideoViews.Inc()
	}

	var eng VideoEngagement
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (e error) {
		eng.Subscribers, e = s.subs.CountByChannel(gctx, v.OwnerID)
		return storeErr("count subscribers", e)
	})
	g.Go(func() (e error) {
		eng.Likes, e = s.likes.CountByTarget(gctx, model.VideoTarget(videoID))
		return storeErr("count likes", e)
	})
	if viewerID != "" {
		g.Go(func() (e error) {
			eng.IsSubscribed, e = s.subs.Exists(gctx, viewerID, v.OwnerID)
			return storeErr("load subscription", e)
		})
		g.Go(func() (e error) {
			eng.IsLiked, e = s.likes.Exists(gctx, viewerID, model.VideoTarget(videoID))
			return storeErr("load like", e)
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	d := BuildVideoDetail(v, owner, eng)
	return &d, nil
}

func (s *videoService) Publish(ctx context.Context, in PublishInput) (*VideoSummary, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrBlankTitle
	}
	if in.Video == nil || in.Thumbnail == nil {
		return nil, ErrMissingMedia
	}
	owner, err := s.users.FindByID(ctx, in.OwnerID)
	if err != nil {
		return nil, storeErr("load owner", err)
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	in.Video.Folder = "videos"
	videoAsset, err := s.store.Store(ctx, *in.Video)
	if err != nil {
		return nil, errcode.Dependency("upload video", err)
	}
	in.Thumbnail.Folder = "thumbnails"
	thumb, err := s.store.Store(ctx, *in.Thumbnail)
	if err != nil {
		s.discard(ctx, videoAsset.URL)
		return nil, errcode.Dependency("upload thumbnail", err)
	}

	v := &model.Video{
		ID:              newID(),
		OwnerID:         in.OwnerID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		VideoURL:        videoAsset.URL,
		ThumbnailURL:    thumb.URL,
		DurationSeconds: videoAsset.DurationSeconds,
		IsPublished:     true,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		s.discard(ctx, videoAsset.URL, thumb.URL)
		return nil, storeErr("create video", err)
	}
	logger.Info("video published", zap.String("video_id", v.ID), zap.String("owner_id", v.OwnerID))
	sum := SummarizeVideo(v, owner)
	return &sum, nil
}

func (s *videoService) UpdateDetails(ctx context.Context, videoID, actorID string, in UpdateVideoInput) (*VideoSummary, error) {
	if in.Title == nil && in.Description == nil && in.Thumbnail == nil {
		return nil, ErrNothingToUpdate
	}
	fields := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, ErrBlankTitle
		}
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return nil, ErrBlankTitle
		}
		fields["description"] = strings.TrimSpace(*in.Description)
	}

	v, err := s.ownedVideo(ctx, videoID, actorID)
	if err != nil {
		return nil, err
	}

	oldThumb := v.ThumbnailURL
	if in.Thumbnail != nil {
		in.Thumbnail.Folder = "thumbnails"
		thumb, err := s.store.Store(ctx, *in.Thumbnail)
		if err != nil {
			return nil, errcode.Dependency("upload thumbnail", err)
		}
		fields["thumbnail_url"] = thumb.URL
	}
	if err := s.videos.Update(ctx, videoID, fields); err != nil {
		if u, ok := fields["thumbnail_url"].(string); ok {
			s.discard(ctx, u)
		}
		return nil, storeErr("update video", err)
	}
	if _, replaced := fields["thumbnail_url"]; replaced && oldThumb != "" {
		s.discard(ctx, oldThumb)
	}
	return s.reload(ctx, videoID)
}

func (s *videoService) TogglePublish(ctx context.Context, videoID, actorID string) (*VideoSummary, error) {
	v, err := s.ownedVideo(ctx, videoID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.videos.Update(ctx, videoID, map[string]any{"is_published": !v.IsPublished}); err != nil {
		return nil, storeErr("toggle publish", err)
	}
	return s.reload(ctx, videoID)
}

func (s *videoService) Delete(ctx context.Context, videoID, actorID string) error {
	v, err := s.ownedVideo(ctx, videoID, actorID)
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, videoID); err != nil {
		return storeErr("delete video", err)
	}
	s.discard(ctx, v.VideoURL, v.ThumbnailURL)
	logger.Info("video deleted", zap.String("video_id", videoID), zap.String("owner_id", actorID))
	return nil
}

// ownedVideo 视频存在且 actor 为作者
func (s *videoService) ownedVideo(ctx context.Context, videoID, actorID string) (*model.Video, error) {
	v, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, storeErr("load video", err)
	}
	if v == nil {
		return nil, ErrVideoNotFound
	}
	if err := AssertOwner(v.OwnerID, actorID); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *videoService) reload(ctx context.Context, videoID string) (*VideoSummary, error) {
	v, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, storeErr("load video", err)
	}
	if v == nil {
		return nil, ErrVideoNotFound
	}
	sum := SummarizeVideo(v, nil)
	return &sum, nil
}

// discard 尽力删除媒体文件，失败只记录日志
func (s *videoService) discard(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := s.store.Delete(ctx, u); err != nil {
			logger.Warn("delete media asset failed", zap.String("url", u), zap.Error(err))
		}
	}
}
