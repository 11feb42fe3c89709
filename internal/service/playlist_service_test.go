package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

func TestPlaylist_AddRemove(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.User("u2")
	e.fx.Video("v1", "u2")
	e.fx.Video("v2", "u1")

	p, err := e.playlists.Create(e.ctx, "u1", "  Favourites ", "mine")
	require.NoError(t, err)
	assert.Equal(t, "Favourites", p.Name)
	assert.Zero(t, p.VideoCount)

	d, err := e.playlists.AddVideo(e.ctx, p.ID, "v1", "u1")
	require.NoError(t, err)
	d, err = e.playlists.AddVideo(e.ctx, p.ID, "v2", "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.VideoCount)
	require.Len(t, d.Videos, 2)
	assert.Equal(t, "v1", d.Videos[0].ID)
	assert.Equal(t, "u2", d.Videos[0].Owner.ID)
	assert.Equal(t, "u1", d.Owner.ID)

	_, err = e.playlists.AddVideo(e.ctx, p.ID, "v1", "u1")
	assert.ErrorIs(t, err, ErrAlreadyInPlaylist)

	d, err = e.playlists.RemoveVideo(e.ctx, p.ID, "v1", "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.VideoCount)

	_, err = e.playlists.RemoveVideo(e.ctx, p.ID, "v1", "u1")
	assert.ErrorIs(t, err, ErrNotInPlaylist)
}

func TestPlaylist_CheckOrder(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.User("u2")
	e.fx.Video("v1", "u1")
	e.fx.Playlist("p1", "u1", "v1")

	// 列表不存在优先于视频不存在
	_, err := e.playlists.AddVideo(e.ctx, "nope", "nope", "u2")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
	// 视频不存在优先于归属
	_, err = e.playlists.AddVideo(e.ctx, "p1", "nope", "u2")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	// 归属优先于成员冲突
	_, err = e.playlists.AddVideo(e.ctx, "p1", "v1", "u2")
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = e.playlists.RemoveVideo(e.ctx, "p1", "v1", "u2")
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = e.playlists.Update(e.ctx, "p1", "u2", strp("x"), nil)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, e.playlists.Delete(e.ctx, "p1", "u2"), ErrNotOwner)
}

func TestPlaylist_UpdateDelete(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.Video("v1", "u1")
	e.fx.Playlist("p1", "u1", "v1")

	_, err := e.playlists.Update(e.ctx, "p1", "u1", nil, nil)
	assert.ErrorIs(t, err, ErrNothingToUpdate)
	_, err = e.playlists.Update(e.ctx, "p1", "u1", strp(" "), nil)
	assert.ErrorIs(t, err, ErrBlankName)

	sum, err := e.playlists.Update(e.ctx, "p1", "u1", nil, strp("new description"))
	require.NoError(t, err)
	assert.Equal(t, "Playlist p1", sum.Name)
	assert.Equal(t, "new description", sum.Description)
	assert.EqualValues(t, 1, sum.VideoCount)

	require.NoError(t, e.playlists.Delete(e.ctx, "p1", "u1"))
	_, err = e.playlists.Get(e.ctx, "p1")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestPlaylist_DanglingVideoAndUserList(t *testing.T) {
	e := newEnv(t)
	e.fx.User("u1")
	e.fx.Video("v1", "u1")
	e.fx.Video("v2", "u1")
	e.fx.Playlist("p1", "u1", "v1", "v2")
	e.fx.Playlist("p2", "u1")
	require.NoError(t, e.db.Delete(&model.Video{}, "id = ?", "v1").Error)

	d, err := e.playlists.Get(e.ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.VideoCount)
	require.Len(t, d.Videos, 1)
	assert.Equal(t, "v2", d.Videos[0].ID)

	page, err := e.playlists.ListByUser(e.ctx, "u1", pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "p2", page.Items[0].ID)
	assert.EqualValues(t, 1, page.Items[1].VideoCount)

	_, err = e.playlists.Create(e.ctx, "u1", "", "")
	assert.ErrorIs(t, err, ErrBlankName)
	_, err = e.playlists.ListByUser(e.ctx, "ghost", pagination.New(1, 10))
	assert.ErrorIs(t, err, ErrUserNotFound)
}
