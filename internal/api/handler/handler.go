package handler

import (
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/vidhub/internal/api/middleware"
	"github.com/d60-Lab/vidhub/internal/media"
	"github.com/d60-Lab/vidhub/internal/service"
	"github.com/d60-Lab/vidhub/pkg/pagination"
	"github.com/d60-Lab/vidhub/pkg/response"
)

// Handler 聚合各业务 handler 依赖
type Handler struct {
	engagement    service.EngagementService
	channels      service.ChannelService
	videos        service.VideoService
	subscriptions service.SubscriptionService
	likes         service.LikeService
	feeds         service.FeedService
	playlists     service.PlaylistService
}

// Services 构造 Handler 所需的服务集合
type Services struct {
	Engagement    service.EngagementService
	Channels      service.ChannelService
	Videos        service.VideoService
	Subscriptions service.SubscriptionService
	Likes         service.LikeService
	Feeds         service.FeedService
	Playlists     service.PlaylistService
}

func New(s Services) *Handler {
	return &Handler{
		engagement:    s.Engagement,
		channels:      s.Channels,
		videos:        s.Videos,
		subscriptions: s.Subscriptions,
		likes:         s.Likes,
		feeds:         s.Feeds,
		playlists:     s.Playlists,
	}
}

// RegisterValidators 注册自定义 binding 校验
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// bindURI 路径参数校验失败时直接返回 400
func bindURI(c *gin.Context, obj any) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

func pageParams(c *gin.Context) pagination.Params {
	return pagination.Parse(c.Query("page"), c.Query("limit"))
}

func actor(c *gin.Context) string { return middleware.CurrentUserID(c) }

// openUpload 读取 multipart 文件；调用方负责关闭返回的文件
func openUpload(fh *multipart.FileHeader, duration float64) (*media.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &media.Upload{
		Filename:        fh.Filename,
		ContentType:     fh.Header.Get("Content-Type"),
		Body:            f,
		DurationSeconds: duration,
	}, f, nil
}
