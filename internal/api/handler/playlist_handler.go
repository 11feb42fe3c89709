package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidhub/pkg/response"
)

type playlistURI struct {
	PlaylistID string `uri:"playlistId" binding:"required,uuid"`
}

type playlistVideoURI struct {
	VideoID    string `uri:"videoId" binding:"required,uuid"`
	PlaylistID string `uri:"playlistId" binding:"required,uuid"`
}

type createPlaylistRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=255"`
	Description string `json:"description"`
}

type updatePlaylistRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

// CreatePlaylist 创建播放列表
// @Summary 创建播放列表
// @Tags 播放列表
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createPlaylistRequest true "播放列表信息"
// @Success 201 {object} response.Response{data=service.PlaylistSummary}
// @Failure 400 {object} response.Response
// @Router /api/v1/playlists [post]
func (h *Handler) CreatePlaylist(c *gin.Context) {
	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlists.Create(c.Request.Context(), actor(c), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p, "playlist created successfully")
}

// GetPlaylist 播放列表详情
// @Summary 播放列表详情
// @Tags 播放列表
// @Produce json
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response{data=service.PlaylistDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/{playlistId} [get]
func (h *Handler) GetPlaylist(c *gin.Context) {
	var uri playlistURI
	if !bindURI(c, &uri) {
		return
	}
	d, err := h.playlists.Get(c.Request.Context(), uri.PlaylistID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d, "playlist fetched successfully")
}

// UpdatePlaylist 修改名称 / 描述
// @Summary 修改播放列表
// @Tags 播放列表
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param playlistId path string true "播放列表ID"
// @Param request body updatePlaylistRequest true "修改内容"
// @Success 200 {object} response.Response{data=service.PlaylistSummary}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/{playlistId} [patch]
func (h *Handler) UpdatePlaylist(c *gin.Context) {
	var uri playlistURI
	if !bindURI(c, &uri) {
		return
	}
	var req updatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlists.Update(c.Request.Context(), uri.PlaylistID, actor(c), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p, "playlist updated successfully")
}

// DeletePlaylist 删除播放列表
// @Summary 删除播放列表
// @Tags 播放列表
// @Security BearerAuth
// @Produce json
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/{playlistId} [delete]
func (h *Handler) DeletePlaylist(c *gin.Context) {
	var uri playlistURI
	if !bindURI(c, &uri) {
		return
	}
	if err := h.playlists.Delete(c.Request.Context(), uri.PlaylistID, actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "playlist deleted successfully")
}

// AddVideoToPlaylist 追加视频
// @Summary 添加视频到播放列表
// @Tags 播放列表
// @Security BearerAuth
// @Produce json
// @Param videoId path string true "视频ID"
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response{data=service.PlaylistDetail}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/playlists/add/{videoId}/{playlistId} [patch]
func (h *Handler) AddVideoToPlaylist(c *gin.Context) {
	var uri playlistVideoURI
	if !bindURI(c, &uri) {
		return
	}
	d, err := h.playlists.AddVideo(c.Request.Context(), uri.PlaylistID, uri.VideoID, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d, "video added to playlist")
}

// RemoveVideoFromPlaylist 移除视频
// @Summary 从播放列表移除视频
// @Tags 播放列表
// @Security BearerAuth
// @Produce json
// @Param videoId path string true "视频ID"
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response{data=service.PlaylistDetail}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/playlists/remove/{videoId}/{playlistId} [patch]
func (h *Handler) RemoveVideoFromPlaylist(c *gin.Context) {
	var uri playlistVideoURI
	if !bindURI(c, &uri) {
		return
	}
	d, err := h.playlists.RemoveVideo(c.Request.Context(), uri.PlaylistID, uri.VideoID, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d, "video removed from playlist")
}

// GetUserPlaylists 用户的播放列表
// @Summary 用户播放列表
// @Tags 播放列表
// @Produce json
// @Param userId path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=pagination.Page[service.PlaylistSummary]}
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/user/{userId} [get]
func (h *Handler) GetUserPlaylists(c *gin.Context) {
	var uri userURI
	if !bindURI(c, &uri) {
		return
	}
	page, err := h.playlists.ListByUser(c.Request.Context(), uri.UserID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page, "playlists fetched successfully")
}
