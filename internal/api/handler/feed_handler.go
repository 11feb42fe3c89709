package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidhub/pkg/response"
)

// GetVideoComments 视频评论，按时间升序
// @Summary 视频评论
// @Tags 评论
// @Produce json
// @Param videoId path string true "视频ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=pagination.Page[service.Post]}
// @Failure 404 {object} response.Response
// @Router /api/v1/comments/{videoId} [get]
func (h *Handler) GetVideoComments(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri) {
		return
	}
	page, err := h.feeds.VideoComments(c.Request.Context(), uri.VideoID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "comments fetched successfully")
}

// GetUserTweets 用户动态
// @Summary 用户动态
// @Tags 动态
// @Produce json
// @Param userId path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=pagination.Page[service.Post]}
// @Failure 404 {object} response.Response
// @Router /api/v1/tweets/user/{userId} [get]
func (h *Handler) GetUserTweets(c *gin.Context) {
	var uri userURI
	if !bindURI(c, &uri) {
		return
	}
	page, err := h.feeds.UserTweets(c.Request.Context(), uri.UserID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "tweets fetched successfully")
}
