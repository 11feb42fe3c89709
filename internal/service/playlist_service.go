package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/pkg/logger"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

// PlaylistService 播放列表管理
type PlaylistService interface {
	Create(ctx context.Context, ownerID, name, description string) (*PlaylistSummary, error)
	Get(ctx context.Context, playlistID string) (*PlaylistDetail, error)
	// Update name / description 为 nil 表示不修改，至少提供一个
	Update(ctx context.Context, playlistID, actorID string, name, description *string) (*PlaylistSummary, error)
	Delete(ctx context.Context, playlistID, actorID string) error
	AddVideo(ctx context.Context, playlistID, videoID, actorID string) (*PlaylistDetail, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) (*PlaylistDetail, error)
	ListByUser(ctx context.Context, userID string, p pagination.Params) (pagination.Page[PlaylistSummary], error)
}

type playlistService struct {
	users     repository.UserRepository
	videos    repository.VideoRepository
	playlists repository.PlaylistRepository
}

func NewPlaylistService(users repository.UserRepository, videos repository.VideoRepository, playlists repository.PlaylistRepository) PlaylistService {
	return &playlistService{users: users, videos: videos, playlists: playlists}
}

func (s *playlistService) Create(ctx context.Context, ownerID, name, description string) (*PlaylistSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, storeErr("load owner", err)
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	p := &model.Playlist{ID: newID(), OwnerID: ownerID, Name: name, Description: strings.TrimSpace(description)}
	if err := s.playlists.Create(ctx, p); err != nil {
		return nil, storeErr("create playlist", err)
	}
	logger.Info("playlist created", zap.String("playlist_id", p.ID), zap.String("owner_id", ownerID))
	sum := SummarizePlaylist(p, owner, 0)
	return &sum, nil
}

func (s *playlistService) Get(ctx context.Context, playlistID string) (_ *PlaylistDetail, err error) {
	ctx, span := startSpan(ctx, "PlaylistService.Get", attribute.String("playlist.id", playlistID))
	defer func() { endSpan(span, err) }()

	p, err := s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p)
}

func (s *playlistService) Update(ctx context.Context, playlistID, actorID string, name, description *string) (*PlaylistSummary, error) {
	if name == nil && description == nil {
		return nil, ErrNothingToUpdate
	}
	fields := map[string]any{}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, ErrBlankName
		}
		fields["name"] = n
	}
	if description != nil {
		fields["description"] = strings.TrimSpace(*description)
	}

	p, err := s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(p.OwnerID, actorID); err != nil {
		return nil, err
	}
	if err := s.playlists.Update(ctx, playlistID, fields); err != nil {
		return nil, storeErr("update playlist", err)
	}

	p, err = s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	counts, err := s.playlists.CountVideos(ctx, []string{p.ID})
	if err != nil {
		return nil, storeErr("count playlist videos", err)
	}
	sum := SummarizePlaylist(p, nil, counts[p.ID])
	return &sum, nil
}

func (s *playlistService) Delete(ctx context.Context, playlistID, actorID string) error {
	p, err := s.load(ctx, playlistID)
	if err != nil {
		return err
	}
	if err := AssertOwner(p.OwnerID, actorID); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, playlistID); err != nil {
		return storeErr("delete playlist", err)
	}
	logger.Info("playlist deleted", zap.String("playlist_id", playlistID))
	return nil
}

// AddVideo 校验顺序：列表存在 → 视频存在 → 归属 → 成员关系
func (s *playlistService) AddVideo(ctx context.Context, playlistID, videoID, actorID string) (*PlaylistDetail, error) {
	p, err := s.checkMembershipChange(ctx, playlistID, videoID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return nil, ErrAlreadyInPlaylist
		}
		return nil, storeErr("add playlist video", err)
	}
	return s.detail(ctx, p)
}

func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) (*PlaylistDetail, error) {
	p, err := s.checkMembershipChange(ctx, playlistID, videoID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, repository.ErrNotMember) {
			return nil, ErrNotInPlaylist
		}
		return nil, storeErr("remove playlist video", err)
	}
	return s.detail(ctx, p)
}

func (s *playlistService) ListByUser(ctx context.Context, userID string, p pagination.Params) (_ pagination.Page[PlaylistSummary], err error) {
	ctx, span := startSpan(ctx, "PlaylistService.ListByUser", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return pagination.Page[PlaylistSummary]{}, storeErr("load user", err)
	}
	if owner == nil {
		return pagination.Page[PlaylistSummary]{}, ErrUserNotFound
	}
	total, err := s.playlists.CountByOwner(ctx, userID)
	if err != nil {
		return pagination.Page[PlaylistSummary]{}, storeErr("count playlists", err)
	}
	ps, err := s.playlists.ListByOwner(ctx, userID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[PlaylistSummary]{}, storeErr("list playlists", err)
	}
	counts, err := s.playlists.CountVideos(ctx, pluck(ps, func(p *model.Playlist) string { return p.ID }))
	if err != nil {
		return pagination.Page[PlaylistSummary]{}, storeErr("count playlist videos", err)
	}
	items := make([]PlaylistSummary, 0, len(ps))
	for _, pl := range ps {
		items = append(items, SummarizePlaylist(pl, owner, counts[pl.ID]))
	}
	return pagination.NewPage(items, p, total), nil
}

func (s *playlistService) checkMembershipChange(ctx context.Context, playlistID, videoID, actorID string) (*model.Playlist, error) {
	p, err := s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	ok, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return nil, storeErr("load video", err)
	}
	if !ok {
		return nil, ErrVideoNotFound
	}
	if err := AssertOwner(p.OwnerID, actorID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playlistService) load(ctx context.Context, playlistID string) (*model.Playlist, error) {
	p, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return nil, storeErr("load playlist", err)
	}
	if p == nil {
		return nil, ErrPlaylistNotFound
	}
	return p, nil
}

func (s *playlistService) detail(ctx context.Context, p *model.Playlist) (*PlaylistDetail, error) {
	vs, err := s.playlists.ListVideos(ctx, p.ID)
	if err != nil {
		return nil, storeErr("list playlist videos", err)
	}
	ids := append(pluck(vs, func(v *model.Video) string { return v.OwnerID }), p.OwnerID)
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("load owners", err)
	}
	d := BuildPlaylistDetail(p, users[p.OwnerID], vs, users)
	return &d, nil
}
