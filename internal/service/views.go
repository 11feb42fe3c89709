package service

import (
	"math"
	"time"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
)

// 以下均为纯投影函数，不访问存储

// OwnerProfile 内容作者 / 频道的公开资料
type OwnerProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// ProfileOf 用户不存在时返回 nil
func ProfileOf(u *model.User) *OwnerProfile {
	if u == nil {
		return nil
	}
	return &OwnerProfile{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// VideoSummary 视频摘要
type VideoSummary struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	VideoURL     string        `json:"videoUrl"`
	ThumbnailURL string        `json:"thumbnail"`
	Duration     float64       `json:"duration"`
	Views        int64         `json:"views"`
	IsPublished  bool          `json:"isPublished"`
	CreatedAt    time.Time     `json:"createdAt"`
	Owner        *OwnerProfile `json:"owner,omitempty"`
}

func SummarizeVideo(v *model.Video, owner *model.User) VideoSummary {
	return VideoSummary{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.DurationSeconds,
		Views:        v.ViewCount,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		Owner:        ProfileOf(owner),
	}
}

// SummarizeVideos 批量投影，owners 中缺失的作者留空
func SummarizeVideos(vs []*model.Video, owners map[string]*model.User) []VideoSummary {
	out := make([]VideoSummary, 0, len(vs))
	for _, v := range vs {
		out = append(out, SummarizeVideo(v, owners[v.OwnerID]))
	}
	return out
}

// ChannelVideo 频道视频列表项
type ChannelVideo struct {
	VideoSummary
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

func ChannelVideos(vs []*model.Video, likes, comments map[string]int64) []ChannelVideo {
	out := make([]ChannelVideo, 0, len(vs))
	for _, v := range vs {
		out = append(out, ChannelVideo{
			VideoSummary:  SummarizeVideo(v, nil),
			LikesCount:    likes[v.ID],
			CommentsCount: comments[v.ID],
		})
	}
	return out
}

// ChannelStats 频道仪表盘
type ChannelStats struct {
	TotalVideos      int64         `json:"totalVideos"`
	TotalViews       int64         `json:"totalViews"`
	TotalLikes       int64         `json:"totalLikes"`
	TotalSubscribers int64         `json:"totalSubscribers"`
	AverageViews     int64         `json:"averageViews"`
	TotalDuration    float64       `json:"totalDuration"`
	MostViewedVideo  *VideoSummary `json:"mostViewedVideo"`
	Channel          OwnerProfile  `json:"channel"`
}

// BuildChannelStats 没有视频时视频相关字段为零值，订阅数独立计算
func BuildChannelStats(channel *model.User, agg repository.VideoAggregate, likes, subscribers int64, top *model.Video) ChannelStats {
	st := ChannelStats{
		TotalVideos:      agg.TotalVideos,
		TotalViews:       agg.TotalViews,
		TotalLikes:       likes,
		TotalSubscribers: subscribers,
		TotalDuration:    agg.TotalDuration,
		Channel:          *ProfileOf(channel),
	}
	if agg.TotalVideos > 0 {
		st.AverageViews = int64(math.Round(float64(agg.TotalViews) / float64(agg.TotalVideos)))
	}
	if top != nil {
		s := SummarizeVideo(top, nil)
		st.MostViewedVideo = &s
	}
	return st
}

// ChannelOwner 视频详情中的作者信息
type ChannelOwner struct {
	OwnerProfile
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

// VideoDetail 视频详情
type VideoDetail struct {
	VideoSummary
	Owner      ChannelOwner `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
}

// VideoEngagement 详情页的互动数据
type VideoEngagement struct {
	Subscribers  int64
	IsSubscribed bool
	Likes        int64
	IsLiked      bool
}

func BuildVideoDetail(v *model.Video, owner *model.User, e VideoEngagement) VideoDetail {
	return VideoDetail{
		VideoSummary: SummarizeVideo(v, nil),
		Owner: ChannelOwner{
			OwnerProfile:     *ProfileOf(owner),
			SubscribersCount: e.Subscribers,
			IsSubscribed:     e.IsSubscribed,
		},
		LikesCount: e.Likes,
		IsLiked:    e.IsLiked,
	}
}

// Subscriber 订阅者列表项
type Subscriber struct {
	OwnerProfile
	SubscribedAt time.Time `json:"subscribedAt"`
}

func Subscribers(rows []repository.SubscriberRow) []Subscriber {
	out := make([]Subscriber, 0, len(rows))
	for _, r := range rows {
		out = append(out, Subscriber{OwnerProfile: profileOfRow(r), SubscribedAt: r.SubscribedAt})
	}
	return out
}

// SubscribedChannel 已订阅频道列表项，附带该频道的订阅数
type SubscribedChannel struct {
	OwnerProfile
	SubscribersCount int64     `json:"subscribersCount"`
	SubscribedAt     time.Time `json:"subscribedAt"`
}

func SubscribedChannels(rows []repository.SubscriberRow, counts map[string]int64) []SubscribedChannel {
	out := make([]SubscribedChannel, 0, len(rows))
	for _, r := range rows {
		out = append(out, SubscribedChannel{
			OwnerProfile:     profileOfRow(r),
			SubscribersCount: counts[r.UserID],
			SubscribedAt:     r.SubscribedAt,
		})
	}
	return out
}

func profileOfRow(r repository.SubscriberRow) OwnerProfile {
	return OwnerProfile{ID: r.UserID, Username: r.Username, FullName: r.FullName, Avatar: r.Avatar}
}

// LikedVideo 用户点赞过的视频
type LikedVideo struct {
	VideoSummary
	LikedAt time.Time `json:"likedAt"`
}

func LikedVideos(rows []repository.LikedVideoRow, owners map[string]*model.User) []LikedVideo {
	out := make([]LikedVideo, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, LikedVideo{VideoSummary: SummarizeVideo(&r.Video, owners[r.OwnerID]), LikedAt: r.LikedAt})
	}
	return out
}

// Post 评论 / 动态的统一投影
type Post struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	Owner      *OwnerProfile `json:"owner"`
	LikesCount int64         `json:"likesCount"`
}

func Comments(cs []*model.Comment, owners map[string]*model.User, likes map[string]int64) []Post {
	out := make([]Post, 0, len(cs))
	for _, c := range cs {
		out = append(out, Post{
			ID:         c.ID,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
			Owner:      ProfileOf(owners[c.OwnerID]),
			LikesCount: likes[c.ID],
		})
	}
	return out
}

func Tweets(ts []*model.Tweet, owner *model.User, likes map[string]int64) []Post {
	out := make([]Post, 0, len(ts))
	for _, t := range ts {
		out = append(out, Post{
			ID:         t.ID,
			Content:    t.Content,
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
			Owner:      ProfileOf(owner),
			LikesCount: likes[t.ID],
		})
	}
	return out
}

// PlaylistSummary 播放列表摘要
type PlaylistSummary struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	VideoCount  int64         `json:"videoCount"`
	Owner       *OwnerProfile `json:"owner,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func SummarizePlaylist(p *model.Playlist, owner *model.User, videoCount int64) PlaylistSummary {
	return PlaylistSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		VideoCount:  videoCount,
		Owner:       ProfileOf(owner),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PlaylistDetail 播放列表详情，视频按列表顺序
type PlaylistDetail struct {
	PlaylistSummary
	Videos []VideoSummary `json:"videos"`
}

func BuildPlaylistDetail(p *model.Playlist, owner *model.User, vs []*model.Video, videoOwners map[string]*model.User) PlaylistDetail {
	videos := SummarizeVideos(vs, videoOwners)
	return PlaylistDetail{
		PlaylistSummary: SummarizePlaylist(p, owner, int64(len(videos))),
		Videos:          videos,
	}
}

// pluck 提取 id 列表
func pluck[T any](xs []T, key func(T) string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, key(x))
	}
	return out
}
