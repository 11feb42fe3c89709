package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/internal/media"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/internal/testutil"
)

// memStore 内存媒体存储，可注入失败
type memStore struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
	failOn  string // 对应 folder 的 Store 返回错误
	seq     int
}

func newMemStore() *memStore { return &memStore{objects: map[string]string{}} }

func (m *memStore) Store(_ context.Context, u media.Upload) (media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && m.failOn == u.Folder {
		return media.Asset{}, errors.New("upload failed")
	}
	body, _ := io.ReadAll(u.Body)
	m.seq++
	url := fmt.Sprintf("mem://%s/%d", u.Folder, m.seq)
	m.objects[url] = string(body)
	return media.Asset{URL: url, DurationSeconds: u.DurationSeconds}, nil
}

func (m *memStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, url)
	m.deleted = append(m.deleted, url)
	return nil
}

type env struct {
	db  *gorm.DB
	fx  *testutil.Fixtures
	ctx context.Context

	store *memStore

	engagement    EngagementService
	channels      ChannelService
	videos        VideoService
	subscriptions SubscriptionService
	likes         LikeService
	feeds         FeedService
	playlists     PlaylistService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	tweets := repository.NewTweetRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	likes := repository.NewLikeRepository(db)
	playlists := repository.NewPlaylistRepository(db)
	store := newMemStore()

	return &env{
		db:            db,
		fx:            testutil.NewFixtures(t, db),
		ctx:           context.Background(),
		store:         store,
		engagement:    NewEngagementService(users, videos, comments, tweets, subs, likes),
		channels:      NewChannelService(users, videos, comments, subs, likes),
		videos:        NewVideoService(users, videos, subs, likes, store),
		subscriptions: NewSubscriptionService(users, subs),
		likes:         NewLikeService(users, likes),
		feeds:         NewFeedService(users, videos, comments, tweets, likes),
		playlists:     NewPlaylistService(users, videos, playlists),
	}
}
