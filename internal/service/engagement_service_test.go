package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/pkg/errcode"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

func TestToggleSubscription_Parity(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.User("c1")

	for i := 1; i <= 4; i++ {
		res, err := e.engagement.ToggleSubscription(e.ctx, "u1", "c1")
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, res.Active)
	}

	page, err := e.subscriptions.Subscribers(e.ctx, "c1", pagination.New(1, 10))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestToggleSubscription_Self(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")

	_, err := e.engagement.ToggleSubscription(e.ctx, "u1", "u1")
	assert.ErrorIs(t, err, ErrSelfSubscription)
	assert.Equal(t, errcode.KindInvalidArgument, errcode.KindOf(err))

	// 即使库里已有自订阅脏数据也拒绝
	e.fx.Subscribe("u1", "u1")
	_, err = e.engagement.ToggleSubscription(e.ctx, "u1", "u1")
	assert.ErrorIs(t, err, ErrSelfSubscription)
}

func TestToggleSubscription_UnknownChannel(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")

	_, err := e.engagement.ToggleSubscription(e.ctx, "u1", "ghost")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestToggle_DeletedActorRejected(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.User("c1")
	e.fx.Video("v1", "c1")
	require.NoError(t, e.db.Delete(&model.User{}, "id = ?", "u1").Error)

	_, err := e.engagement.ToggleSubscription(e.ctx, "u1", "c1")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = e.engagement.ToggleLike(e.ctx, "u1", model.VideoTarget("v1"))
	assert.ErrorIs(t, err, ErrUserNotFound)

	var rows int64
	require.NoError(t, e.db.Model(&model.Subscription{}).Count(&rows).Error)
	assert.Zero(t, rows)
	require.NoError(t, e.db.Model(&model.Like{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestToggleSubscription_ConcurrentStaysConsistent(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.User("c1")

	const workers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		on, off int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.engagement.ToggleSubscription(e.ctx, "u1", "c1")
			if err != nil {
				assert.ErrorIs(t, err, ErrToggleConflict)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Active {
				on++
			} else {
				off++
			}
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, e.db.Model(&model.Subscription{}).Count(&rows).Error)
	assert.LessOrEqual(t, rows, int64(1))
	assert.EqualValues(t, on-off, rows)
}

func TestToggleLike_TargetMustExist(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.Video("v1", "u1")
	e.fx.Comment("k1", "v1", "u1")
	e.fx.Tweet("t1", "u1")

	cases := []struct {
		target model.LikeTarget
		want   error
	}{
		{model.VideoTarget("nope"), ErrVideoNotFound},
		{model.CommentTarget("nope"), ErrCommentNotFound},
		{model.TweetTarget("nope"), ErrTweetNotFound},
	}
	for _, tc := range cases {
		_, err := e.engagement.ToggleLike(e.ctx, "u1", tc.target)
		assert.ErrorIs(t, err, tc.want, tc.target.String())
	}

	for _, target := range []model.LikeTarget{model.VideoTarget("v1"), model.CommentTarget("k1"), model.TweetTarget("t1")} {
		res, err := e.engagement.ToggleLike(e.ctx, "u1", target)
		require.NoError(t, err)
		assert.True(t, res.Active, target.String())
	}

	_, err := e.engagement.ToggleLike(e.ctx, "u1", model.LikeTarget{Kind: "playlist", ID: "p1"})
	assert.Equal(t, errcode.KindInvalidArgument, errcode.KindOf(err))
}

// u1 点赞 u2 的视频 v1，再取消
func TestLikeVideoScenario(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.User("u2")
	e.fx.Video("v1", "u2")

	res, err := e.engagement.ToggleLike(e.ctx, "u1", model.VideoTarget("v1"))
	require.NoError(t, err)
	assert.True(t, res.Active)

	liked, err := e.likes.LikedVideos(e.ctx, "u1", pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, liked.Items, 1)
	assert.Equal(t, "v1", liked.Items[0].ID)
	require.NotNil(t, liked.Items[0].Owner)
	assert.Equal(t, "u2", liked.Items[0].Owner.ID)

	detail, err := e.videos.Detail(e.ctx, "v1", "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.LikesCount)
	assert.True(t, detail.IsLiked)

	res, err = e.engagement.ToggleLike(e.ctx, "u1", model.VideoTarget("v1"))
	require.NoError(t, err)
	assert.False(t, res.Active)

	liked, err = e.likes.LikedVideos(e.ctx, "u1", pagination.New(1, 10))
	require.NoError(t, err)
	assert.Empty(t, liked.Items)
	assert.Zero(t, liked.Total)
}
