package repository

import "fmt"

// SortField 对外暴露的排序字段
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortViews     SortField = "views"
	SortDuration  SortField = "duration"
	SortTitle     SortField = "title"
	SortLikes     SortField = "likesCount"
	SortComments  SortField = "commentsCount"
)

// Sort 排序规格；零值为 createdAt DESC
type Sort struct {
	Field SortField
	Asc   bool
}

var videoSortExpr = map[SortField]string{
	SortCreatedAt: "videos.created_at",
	SortViews:     "videos.view_count",
	SortDuration:  "videos.duration_seconds",
	SortTitle:     "videos.title",
	SortLikes:     "(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'video' AND likes.target_id = videos.id)",
	SortComments:  "(SELECT COUNT(*) FROM comments JOIN users cu ON cu.id = comments.owner_id WHERE comments.video_id = videos.id)",
}

// ValidVideoSort 报告字段是否可用于视频排序
func ValidVideoSort(f SortField) bool {
	_, ok := videoSortExpr[f]
	return ok
}

// orderVideos 生成 ORDER BY，相同值按 id 升序保证稳定
func (s Sort) orderVideos() string {
	expr, ok := videoSortExpr[s.Field]
	if !ok {
		expr = videoSortExpr[SortCreatedAt]
	}
	dir := "DESC"
	if s.Asc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, videos.id ASC", expr, dir)
}
