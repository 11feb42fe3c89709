package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/config"
	"github.com/d60-Lab/vidhub/internal/api/handler"
	"github.com/d60-Lab/vidhub/internal/api/middleware"
	"github.com/d60-Lab/vidhub/internal/media"
	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/internal/service"
	"github.com/d60-Lab/vidhub/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := handler.RegisterValidators(); err != nil {
		panic(err)
	}
}

type apiEnv struct {
	t      *testing.T
	db     *gorm.DB
	fx     *testutil.Fixtures
	engine *gin.Engine
	auth   *middleware.Authenticator
}

func newAPI(t *testing.T, limiter middleware.Limiter) *apiEnv {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	tweets := repository.NewTweetRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	likes := repository.NewLikeRepository(db)
	playlists := repository.NewPlaylistRepository(db)
	store, err := media.NewLocalStore(t.TempDir(), "http://localhost/static")
	require.NoError(t, err)

	h := handler.New(handler.Services{
		Engagement:    service.NewEngagementService(users, videos, comments, tweets, subs, likes),
		Channels:      service.NewChannelService(users, videos, comments, subs, likes),
		Videos:        service.NewVideoService(users, videos, subs, likes, store),
		Subscriptions: service.NewSubscriptionService(users, subs),
		Likes:         service.NewLikeService(users, likes),
		Feeds:         service.NewFeedService(users, videos, comments, tweets, likes),
		Playlists:     service.NewPlaylistService(users, videos, playlists),
	})
	auth := middleware.NewAuthenticator("test-secret", "vidhub")
	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}

	return &apiEnv{
		t:      t,
		db:     db,
		fx:     testutil.NewFixtures(t, db),
		engine: New(Options{Config: cfg, DB: db, Handler: h, Auth: auth, Limiter: limiter}),
		auth:   auth,
	}
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func (e *apiEnv) do(method, path, userID string, body []byte, contentType string) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if userID != "" {
		token, err := e.auth.Issue(userID, time.Minute)
		require.NoError(e.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (e *apiEnv) user() string {
	id := uuid.NewString()
	e.fx.User(id)
	return id
}

func TestToggleSubscriptionRoute(t *testing.T) {
	api := newAPI(t, nil)
	u1, c1 := api.user(), api.user()
	path := "/api/v1/subscriptions/c/" + c1

	w, _ := api.do(http.MethodPost, path, "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := api.do(http.MethodPost, path, u1, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.JSONEq(t, `{"isSubscribed":true}`, string(env.Data))

	_, env = api.do(http.MethodPost, path, u1, nil, "")
	assert.JSONEq(t, `{"isSubscribed":false}`, string(env.Data))

	w, env = api.do(http.MethodPost, "/api/v1/subscriptions/c/"+u1, u1, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "cannot subscribe to own channel", env.Message)

	w, _ = api.do(http.MethodPost, "/api/v1/subscriptions/c/not-a-uuid", u1, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/subscriptions/c/"+uuid.NewString(), u1, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitedToggle(t *testing.T) {
	api := newAPI(t, middleware.NewLocalLimiter(0.001, 2))
	u1, c1 := api.user(), api.user()
	path := "/api/v1/subscriptions/c/" + c1

	for i := 0; i < 2; i++ {
		w, _ := api.do(http.MethodPost, path, u1, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, env := api.do(http.MethodPost, path, u1, nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, env.Success)
}

func TestVideoDetailAndChannelStats(t *testing.T) {
	api := newAPI(t, nil)
	owner, viewer := api.user(), api.user()
	vid := uuid.NewString()
	api.fx.Video(vid, owner, func(v *model.Video) { v.ViewCount = 1 })

	w, _ := api.do(http.MethodPost, "/api/v1/likes/toggle/v/"+vid, viewer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env := api.do(http.MethodGet, "/api/v1/videos/"+vid, viewer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail service.VideoDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.EqualValues(t, 2, detail.Views)
	assert.True(t, detail.IsLiked)
	assert.EqualValues(t, 1, detail.LikesCount)
	assert.Equal(t, owner, detail.Owner.ID)

	w, env = api.do(http.MethodGet, "/api/v1/channels/"+owner+"/stats", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var st service.ChannelStats
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.EqualValues(t, 1, st.TotalVideos)
	assert.EqualValues(t, 2, st.TotalViews)
	assert.EqualValues(t, 1, st.TotalLikes)

	w, _ = api.do(http.MethodGet, "/api/v1/channels/"+owner+"/videos?sortBy=rating", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(http.MethodGet, "/api/v1/channels/"+owner+"/videos?page=abc&limit=-3", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestPlaylistRoutes(t *testing.T) {
	api := newAPI(t, nil)
	owner, other := api.user(), api.user()
	vid := uuid.NewString()
	api.fx.Video(vid, owner)

	w, _ := api.do(http.MethodPost, "/api/v1/playlists", owner, []byte(`{"name":"   "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := api.do(http.MethodPost, "/api/v1/playlists", owner, []byte(`{"name":"Mix","description":"d"}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code)
	var p service.PlaylistSummary
	require.NoError(t, json.Unmarshal(env.Data, &p))

	w, _ = api.do(http.MethodPatch, "/api/v1/playlists/add/"+vid+"/"+p.ID, other, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = api.do(http.MethodPatch, "/api/v1/playlists/add/"+vid+"/"+p.ID, owner, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(http.MethodPatch, "/api/v1/playlists/add/"+vid+"/"+p.ID, owner, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = api.do(http.MethodGet, "/api/v1/playlists/"+p.ID, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var d service.PlaylistDetail
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.EqualValues(t, 1, d.VideoCount)

	w, _ = api.do(http.MethodPatch, "/api/v1/playlists/"+p.ID, owner, []byte(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodDelete, "/api/v1/playlists/"+p.ID, owner, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(http.MethodGet, "/api/v1/playlists/"+p.ID, "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishVideoRoute(t *testing.T) {
	api := newAPI(t, nil)
	owner := api.user()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Hello"))
	require.NoError(t, mw.WriteField("description", "world"))
	require.NoError(t, mw.WriteField("duration", "12.5"))
	fw, err := mw.CreateFormFile("videoFile", "clip.mp4")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("video-bytes"))
	fw, err = mw.CreateFormFile("thumbnail", "thumb.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("thumb-bytes"))
	require.NoError(t, mw.Close())

	w, env := api.do(http.MethodPost, "/api/v1/videos", owner, buf.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var v service.VideoSummary
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "Hello", v.Title)
	assert.Equal(t, 12.5, v.Duration)

	w, env = api.do(http.MethodGet, "/api/v1/videos?query=hello", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), v.ID)
}

func TestHealthz(t *testing.T) {
	api := newAPI(t, nil)
	w, env := api.do(http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}
