package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidhub/pkg/response"
)

type channelURI struct {
	ChannelID string `uri:"channelId" binding:"required,uuid"`
}

type subscriberURI struct {
	SubscriberID string `uri:"subscriberId" binding:"required,uuid"`
}

// ToggleSubscription 订阅 / 取消订阅频道
// @Summary 切换订阅
// @Tags 订阅
// @Security BearerAuth
// @Produce json
// @Param channelId path string true "频道ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/subscriptions/c/{channelId} [post]
func (h *Handler) ToggleSubscription(c *gin.Context) {
	var uri channelURI
	if !bindURI(c, &uri) {
		return
	}
	res, err := h.engagement.ToggleSubscription(c.Request.Context(), actor(c), uri.ChannelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "unsubscribed successfully"
	if res.Active {
		msg = "subscribed successfully"
	}
	response.Success(c, gin.H{"isSubscribed": res.Active}, msg)
}

// GetSubscribers 频道的订阅者
// @Summary 查询频道订阅者
// @Tags 订阅
// @Produce json
// @Param channelId path string true "频道ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=pagination.Page[service.Subscriber]}
// @Failure 404 {object} response.Response
// @Router /api/v1/subscriptions/c/{channelId}/subscribers [get]
func (h *Handler) GetSubscribers(c *gin.Context) {
	var uri channelURI
	if !bindURI(c, &uri) {
		return
	}
	page, err := h.subscriptions.Subscribers(c.Request.Context(), uri.ChannelID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "subscribers fetched successfully")
}

// GetSubscribedChannels 用户订阅的频道
// @Summary 查询已订阅频道
// @Tags 订阅
// @Produce json
// @Param subscriberId path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=pagination.Page[service.SubscribedChannel]}
// @Failure 404 {object} response.Response
// @Router /api/v1/subscriptions/u/{subscriberId}/channels [get]
func (h *Handler) GetSubscribedChannels(c *gin.Context) {
	var uri subscriberURI
	if !bindURI(c, &uri) {
		return
	}
	page, err := h.subscriptions.SubscribedChannels(c.Request.Context(), uri.SubscriberID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "subscribed channels fetched successfully")
}
