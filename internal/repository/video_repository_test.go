package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/testutil"
)

func ids(vs []*model.Video) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

type videoFixture struct {
	Repo VideoRepository
	Fx   *testutil.Fixtures
}

func seedChannel(t *testing.T) (*videoFixture, context.Context) {
	t.Helper()
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	fx.User("c1")
	fx.User("fan")
	fx.Video("v1", "c1", func(v *model.Video) { v.ViewCount = 10; v.DurationSeconds = 30; v.Title = "Bravo" })
	fx.Video("v2", "c1", func(v *model.Video) { v.ViewCount = 50; v.DurationSeconds = 90; v.Title = "alpha" })
	fx.Video("v3", "c1", func(v *model.Video) {
		v.ViewCount = 50
		v.DurationSeconds = 10
		v.Title = "Charlie"
		v.IsPublished = false
	})
	fx.Like("fan", model.VideoTarget("v1"))
	fx.Like("c1", model.VideoTarget("v1"))
	fx.Like("fan", model.VideoTarget("v3"))
	fx.Comment("k1", "v2", "fan")
	return &videoFixture{Repo: NewVideoRepository(db), Fx: fx}, context.Background()
}

func TestVideoListByOwner_Sorts(t *testing.T) {
	f, ctx := seedChannel(t)

	cases := []struct {
		sort Sort
		want []string
	}{
		{Sort{}, []string{"v3", "v2", "v1"}},
		{Sort{Field: SortCreatedAt, Asc: true}, []string{"v1", "v2", "v3"}},
		// 相同播放数按 id 升序
		{Sort{Field: SortViews}, []string{"v2", "v3", "v1"}},
		{Sort{Field: SortDuration, Asc: true}, []string{"v3", "v1", "v2"}},
		{Sort{Field: SortLikes}, []string{"v1", "v3", "v2"}},
		{Sort{Field: SortComments}, []string{"v2", "v1", "v3"}},
	}
	for _, tc := range cases {
		got, err := f.Repo.ListByOwner(ctx, "c1", tc.sort, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ids(got), "%+v", tc.sort)
	}

	got, err := f.Repo.ListByOwner(ctx, "c1", Sort{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, ids(got))
}

func TestVideoSortByComments_SkipsDeletedAuthors(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	fx.User("c1")
	fx.User("fan")
	fx.User("gone")
	fx.Video("v1", "c1")
	fx.Video("v2", "c1")
	fx.Comment("k1", "v1", "gone")
	fx.Comment("k2", "v1", "gone")
	fx.Comment("k3", "v2", "fan")
	require.NoError(t, db.Delete(&model.User{}, "id = ?", "gone").Error)

	got, err := NewVideoRepository(db).ListByOwner(context.Background(), "c1", Sort{Field: SortComments}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v1"}, ids(got))
}

func TestVideoListPublished_Filters(t *testing.T) {
	f, ctx := seedChannel(t)
	f.Fx.User("c2")
	f.Fx.Video("w1", "c2", func(v *model.Video) { v.Title = "ALPHA 100%" })
	f.Fx.User("gone")
	f.Fx.Video("w2", "gone")
	require.NoError(t, f.Fx.DB().Delete(&model.User{}, "id = ?", "gone").Error)

	got, err := f.Repo.ListPublished(ctx, VideoFilter{}, Sort{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "v2", "v1"}, ids(got))

	got, err = f.Repo.ListPublished(ctx, VideoFilter{Query: "Alpha"}, Sort{Field: SortTitle, Asc: true}, 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"v2", "w1"}, ids(got))

	got, err = f.Repo.ListPublished(ctx, VideoFilter{Query: "100%"}, Sort{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, ids(got))

	got, err = f.Repo.ListPublished(ctx, VideoFilter{Query: "about", OwnerID: "c1"}, Sort{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v1"}, ids(got))

	total, err := f.Repo.CountPublished(ctx, VideoFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestVideoAggregateAndMostViewed(t *testing.T) {
	f, ctx := seedChannel(t)

	agg, err := f.Repo.AggregateByOwner(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, VideoAggregate{TotalVideos: 3, TotalViews: 110, TotalDuration: 130}, agg)

	top, err := f.Repo.MostViewedByOwner(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, "v2", top.ID)

	agg, err = f.Repo.AggregateByOwner(ctx, "fan")
	require.NoError(t, err)
	assert.Equal(t, VideoAggregate{}, agg)
	top, err = f.Repo.MostViewedByOwner(ctx, "fan")
	require.NoError(t, err)
	assert.Nil(t, top)
}

func TestVideoIncrementViews(t *testing.T) {
	f, ctx := seedChannel(t)

	require.NoError(t, f.Repo.IncrementViews(ctx, "v1"))
	require.NoError(t, f.Repo.IncrementViews(ctx, "v1"))
	v, err := f.Repo.FindByID(ctx, "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 12, v.ViewCount)

	v, err = f.Repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
