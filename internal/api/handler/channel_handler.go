package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidhub/internal/service"
	"github.com/d60-Lab/vidhub/pkg/response"
)

// GetChannelStats 频道仪表盘
// @Summary 频道统计
// @Tags 频道
// @Produce json
// @Param channelId path string true "频道ID"
// @Success 200 {object} response.Response{data=service.ChannelStats}
// @Failure 404 {object} response.Response
// @Router /api/v1/channels/{channelId}/stats [get]
func (h *Handler) GetChannelStats(c *gin.Context) {
	var uri channelURI
	if !bindURI(c, &uri) {
		return
	}
	st, err := h.channels.Stats(c.Request.Context(), uri.ChannelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, st, "channel stats fetched successfully")
}

// GetChannelVideos 频道视频
// @Summary 频道视频列表
// @Tags 频道
// @Produce json
// @Param channelId path string true "频道ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param sortBy query string false "排序字段" Enums(createdAt, views, duration, title, likesCount, commentsCount)
// @Param sortType query string false "排序方向" Enums(asc, desc)
// @Success 200 {object} response.Response{data=pagination.Page[service.ChannelVideo]}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/channels/{channelId}/videos [get]
func (h *Handler) GetChannelVideos(c *gin.Context) {
	var uri channelURI
	if !bindURI(c, &uri) {
		return
	}
	sort, err := service.ParseSort(c.Query("sortBy"), c.Query("sortType"))
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.channels.Videos(c.Request.Context(), uri.ChannelID, sort, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "channel videos fetched successfully")
}
