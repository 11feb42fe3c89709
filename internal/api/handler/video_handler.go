package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/internal/service"
	"github.com/d60-Lab/vidhub/pkg/response"
)

type listVideosQuery struct {
	Query    string `form:"query"`
	UserID   string `form:"userId" binding:"omitempty,uuid"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType"`
}

type publishVideoForm struct {
	Title       string                `form:"title" binding:"required,notblank"`
	Description string                `form:"description" binding:"required,notblank"`
	Duration    float64               `form:"duration" binding:"gte=0"`
	VideoFile   *multipart.FileHeader `form:"videoFile" binding:"required"`
	Thumbnail   *multipart.FileHeader `form:"thumbnail" binding:"required"`
}

type updateVideoForm struct {
	Title       *string               `form:"title" json:"title"`
	Description *string               `form:"description" json:"description"`
	Thumbnail   *multipart.FileHeader `form:"thumbnail" json:"-"`
}

// ListVideos 公开视频流
// @Summary 公开视频列表
// @Tags 视频
// @Produce json
// @Param query query string false "标题/描述关键字"
// @Param userId query string false "作者ID"
// @Param sortBy query string false "排序字段" Enums(createdAt, views, duration, title, likesCount, commentsCount)
// @Param sortType query string false "排序方向" Enums(asc, desc)
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=pagination.Page[service.VideoSummary]}
// @Failure 400 {object} response.Response
// @Router /api/v1/videos [get]
func (h *Handler) ListVideos(c *gin.Context) {
	var q listVideosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sort, err := service.ParseSort(q.SortBy, q.SortType)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.videos.PublicVideos(c.Request.Context(), repository.VideoFilter{Query: q.Query, OwnerID: q.UserID}, sort, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "videos fetched successfully")
}

// GetVideo 视频详情，非作者访问会增加播放数
// @Summary 视频详情
// @Tags 视频
// @Produce json
// @Param videoId path string true "视频ID"
// @Success 200 {object} response.Response{data=service.VideoDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/videos/{videoId} [get]
func (h *Handler) GetVideo(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri) {
		return
	}
	d, err := h.videos.Detail(c.Request.Context(), uri.VideoID, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d, "video fetched successfully")
}

// PublishVideo 上传并发布视频
// @Summary 发布视频
// @Tags 视频
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param duration formData number false "时长（秒）"
// @Param videoFile formData file true "视频文件"
// @Param thumbnail formData file true "缩略图"
// @Success 201 {object} response.Response{data=service.VideoSummary}
// @Failure 400 {object} response.Response
// @Router /api/v1/videos [post]
func (h *Handler) PublishVideo(c *gin.Context) {
	var form publishVideoForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	video, vf, err := openUpload(form.VideoFile, form.Duration)
	if err != nil {
		response.BadRequest(c, "cannot read video file")
		return
	}
	defer vf.Close()
	thumb, tf, err := openUpload(form.Thumbnail, 0)
	if err != nil {
		response.BadRequest(c, "cannot read thumbnail")
		return
	}
	defer tf.Close()

	v, err := h.videos.Publish(c.Request.Context(), service.PublishInput{
		OwnerID:     actor(c),
		Title:       form.Title,
		Description: form.Description,
		Video:       video,
		Thumbnail:   thumb,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, v, "video published successfully")
}

// UpdateVideo 修改标题 / 描述 / 缩略图
// @Summary 修改视频
// @Tags 视频
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param videoId path string true "视频ID"
// @Param title formData string false "标题"
// @Param description formData string false "描述"
// @Param thumbnail formData file false "缩略图"
// @Success 200 {object} response.Response{data=service.VideoSummary}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/videos/{videoId} [patch]
func (h *Handler) UpdateVideo(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri) {
		return
	}
	var form updateVideoForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	in := service.UpdateVideoInput{Title: form.Title, Description: form.Description}
	if form.Thumbnail != nil {
		thumb, tf, err := openUpload(form.Thumbnail, 0)
		if err != nil {
			response.BadRequest(c, "cannot read thumbnail")
			return
		}
		defer tf.Close()
		in.Thumbnail = thumb
	}
	v, err := h.videos.UpdateDetails(c.Request.Context(), uri.VideoID, actor(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, v, "video updated successfully")
}

// DeleteVideo 删除视频及其媒体文件
// @Summary 删除视频
// @Tags 视频
// @Security BearerAuth
// @Produce json
// @Param videoId path string true "视频ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/videos/{videoId} [delete]
func (h *Handler) DeleteVideo(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri) {
		return
	}
	if err := h.videos.Delete(c.Request.Context(), uri.VideoID, actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "video deleted successfully")
}

// TogglePublish 切换发布状态
// @Summary 切换发布状态
// @Tags 视频
// @Security BearerAuth
// @Produce json
// @Param videoId path string true "视频ID"
// @Success 200 {object} response.Response{data=service.VideoSummary}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/videos/toggle/publish/{videoId} [patch]
func (h *Handler) TogglePublish(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri) {
		return
	}
	v, err := h.videos.TogglePublish(c.Request.Context(), uri.VideoID, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, v, "publish status toggled")
}
