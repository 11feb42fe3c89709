package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

func TestVideoComments(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.User("u2")
	e.fx.Video("v1", "u1")
	e.fx.Comment("k1", "v1", "u2")
	e.fx.Comment("k2", "v1", "u1")
	e.fx.Like("u1", model.CommentTarget("k1"))

	page, err := e.feeds.VideoComments(e.ctx, "v1", pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	// 评论按时间升序
	assert.Equal(t, "k1", page.Items[0].ID)
	assert.Equal(t, "u2", page.Items[0].Owner.ID)
	assert.EqualValues(t, 1, page.Items[0].LikesCount)
	assert.Zero(t, page.Items[1].LikesCount)

	_, err = e.feeds.VideoComments(e.ctx, "missing", pagination.New(1, 10))
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestUserTweets(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.Tweet("t1", "u1")
	e.fx.Tweet("t2", "u1")
	e.fx.Like("u1", model.TweetTarget("t1"))

	page, err := e.feeds.UserTweets(e.ctx, "u1", pagination.New(1, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "t2", page.Items[0].ID)
	assert.Equal(t, "u1", page.Items[0].Owner.ID)

	_, err = e.feeds.UserTweets(e.ctx, "ghost", pagination.New(1, 1))
	assert.ErrorIs(t, err, ErrUserNotFound)
}
