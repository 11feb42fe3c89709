package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/pkg/response"
)

type videoURI struct {
	VideoID string `uri:"videoId" binding:"required,uuid"`
}

type commentURI struct {
	CommentID string `uri:"commentId" binding:"required,uuid"`
}

type tweetURI struct {
	TweetID string `uri:"tweetId" binding:"required,uuid"`
}

type userURI struct {
	UserID string `uri:"userId" binding:"required,uuid"`
}

// ToggleVideoLike 点赞 / 取消点赞视频
// @Summary 切换视频点赞
// @Tags 点赞
// @Security BearerAuth
// @Produce json
// @Param videoId path string true "视频ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/likes/toggle/v/{videoId} [post]
func (h *Handler) ToggleVideoLike(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri) {
		return
	}
	h.toggleLike(c, model.VideoTarget(uri.VideoID))
}

// ToggleCommentLike 点赞 / 取消点赞评论
// @Summary 切换评论点赞
// @Tags 点赞
// @Security BearerAuth
// @Produce json
// @Param commentId path string true "评论ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 404 {object} response.Response
// @Router /api/v1/likes/toggle/c/{commentId} [post]
func (h *Handler) ToggleCommentLike(c *gin.Context) {
	var uri commentURI
	if !bindURI(c, &uri) {
		return
	}
	h.toggleLike(c, model.CommentTarget(uri.CommentID))
}

// ToggleTweetLike 点赞 / 取消点赞动态
// @Summary 切换动态点赞
// @Tags 点赞
// @Security BearerAuth
// @Produce json
// @Param tweetId path string true "动态ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 404 {object} response.Response
// @Router /api/v1/likes/toggle/t/{tweetId} [post]
func (h *Handler) ToggleTweetLike(c *gin.Context) {
	var uri tweetURI
	if !bindURI(c, &uri) {
		return
	}
	h.toggleLike(c, model.TweetTarget(uri.TweetID))
}

func (h *Handler) toggleLike(c *gin.Context, target model.LikeTarget) {
	res, err := h.engagement.ToggleLike(c.Request.Context(), actor(c), target)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "like removed"
	if res.Active {
		msg = "like added"
	}
	response.Success(c, gin.H{"isLiked": res.Active}, msg)
}

// GetLikedVideos 用户点赞过的视频
// @Summary 查询点赞视频
// @Tags 点赞
// @Produce json
// @Param userId path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=pagination.Page[service.LikedVideo]}
// @Failure 404 {object} response.Response
// @Router /api/v1/likes/users/{userId}/videos [get]
func (h *Handler) GetLikedVideos(c *gin.Context) {
	var uri userURI
	if !bindURI(c, &uri) {
		return
	}
	page, err := h.likes.LikedVideos(c.Request.Context(), uri.UserID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "liked videos fetched successfully")
}
