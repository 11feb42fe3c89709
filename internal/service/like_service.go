package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

// LikeService 用户点赞过的视频
type LikeService interface {
	LikedVideos(ctx context.Context, userID string, p pagination.Params) (pagination.Page[LikedVideo], error)
}

type likeService struct {
	users repository.UserRepository
	likes repository.LikeRepository
}

func NewLikeService(users repository.UserRepository, likes repository.LikeRepository) LikeService {
	return &likeService{users: users, likes: likes}
}

func (s *likeService) LikedVideos(ctx context.Context, userID string, p pagination.Params) (_ pagination.Page[LikedVideo], err error) {
	ctx, span := startSpan(ctx, "LikeService.LikedVideos", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return pagination.Page[LikedVideo]{}, storeErr("load user", err)
	}
	if u == nil {
		return pagination.Page[LikedVideo]{}, ErrUserNotFound
	}

	total, err := s.likes.CountLikedVideos(ctx, userID)
	if err != nil {
		return pagination.Page[LikedVideo]{}, storeErr("count liked videos", err)
	}
	rows, err := s.likes.ListLikedVideos(ctx, userID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[LikedVideo]{}, storeErr("list liked videos", err)
	}
	owners, err := s.users.FindByIDs(ctx, pluck(rows, func(r repository.LikedVideoRow) string { return r.OwnerID }))
	if err != nil {
		return pagination.Page[LikedVideo]{}, storeErr("load owners", err)
	}
	return pagination.NewPage(LikedVideos(rows, owners), p, total), nil
}
