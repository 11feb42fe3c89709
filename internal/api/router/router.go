package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidhub/config"
	_ "github.com/d60-Lab/vidhub/docs"
	"github.com/d60-Lab/vidhub/internal/api/handler"
	"github.com/d60-Lab/vidhub/internal/api/middleware"
	"github.com/d60-Lab/vidhub/pkg/response"
)

// Options 路由依赖
type Options struct {
	Config  *config.Config
	DB      *gorm.DB
	Handler *handler.Handler
	Auth    *middleware.Authenticator
	// Limiter 为 nil 时不限流
	Limiter middleware.Limiter
	// MediaDir 非空时在 /static 下提供本地媒体文件
	MediaDir string
}

// New 组装 gin 引擎
func New(o Options) *gin.Engine {
	gin.SetMode(o.Config.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	if o.Config.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if o.Config.Tracing.Enabled {
		r.Use(otelgin.Middleware(o.Config.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/healthz", health(o.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if o.MediaDir != "" {
		r.Static("/static", o.MediaDir)
	}

	h := o.Handler
	required := o.Auth.Required()
	optional := o.Auth.Optional()
	toggles := []gin.HandlerFunc{required}
	if o.Limiter != nil {
		toggles = append(toggles, middleware.RateLimit(o.Limiter))
	}

	v1 := r.Group("/api/v1")
	{
		// 切换类接口：登录 + 限流
		guarded := v1.Group("", toggles...)
		guarded.POST("/subscriptions/c/:channelId", h.ToggleSubscription)
		guarded.POST("/likes/toggle/v/:videoId", h.ToggleVideoLike)
		guarded.POST("/likes/toggle/c/:commentId", h.ToggleCommentLike)
		guarded.POST("/likes/toggle/t/:tweetId", h.ToggleTweetLike)

		subs := v1.Group("/subscriptions")
		subs.GET("/c/:channelId/subscribers", h.GetSubscribers)
		subs.GET("/u/:subscriberId/channels", h.GetSubscribedChannels)

		v1.GET("/likes/users/:userId/videos", h.GetLikedVideos)

		channels := v1.Group("/channels")
		channels.GET("/:channelId/stats", h.GetChannelStats)
		channels.GET("/:channelId/videos", h.GetChannelVideos)

		videos := v1.Group("/videos")
		videos.GET("", h.ListVideos)
		videos.GET("/:videoId", optional, h.GetVideo)
		videos.POST("", required, h.PublishVideo)
		videos.PATCH("/:videoId", required, h.UpdateVideo)
		videos.DELETE("/:videoId", required, h.DeleteVideo)
		videos.PATCH("/toggle/publish/:videoId", required, h.TogglePublish)

		v1.GET("/comments/:videoId", h.GetVideoComments)
		v1.GET("/tweets/user/:userId", h.GetUserTweets)

		playlists := v1.Group("/playlists")
		playlists.POST("", required, h.CreatePlaylist)
		playlists.GET("/:playlistId", h.GetPlaylist)
		playlists.PATCH("/:playlistId", required, h.UpdatePlaylist)
		playlists.DELETE("/:playlistId", required, h.DeletePlaylist)
		playlists.PATCH("/add/:videoId/:playlistId", required, h.AddVideoToPlaylist)
		playlists.PATCH("/remove/:videoId/:playlistId", required, h.RemoveVideoFromPlaylist)
		playlists.GET("/user/:userId", h.GetUserPlaylists)
	}
	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Response{
				StatusCode: http.StatusServiceUnavailable,
				Message:    "database unavailable",
			})
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}
