// Package testutil 提供测试用的内存 SQLite 与数据构造工具
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/pkg/database"
)

// NewDB 每个测试独立的共享缓存内存库；单连接保证并发测试下的可见性
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Fixtures 直接写库构造测试数据
type Fixtures struct {
	tb   testing.TB
	db   *gorm.DB
	base time.Time
	seq  int
}

func NewFixtures(tb testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{tb: tb, db: db, base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *Fixtures) DB() *gorm.DB { return f.db }

// Tick 返回单调递增的时间戳，保证 created_at 排序可预期
func (f *Fixtures) Tick() time.Time {
	f.seq++
	return f.base.Add(time.Duration(f.seq) * time.Minute)
}

func (f *Fixtures) create(v any) {
	f.tb.Helper()
	if err := f.db.Create(v).Error; err != nil {
		f.tb.Fatalf("create %T: %v", v, err)
	}
}

func (f *Fixtures) User(id string) *model.User {
	u := &model.User{ID: id, Username: "user_" + id, FullName: "User " + id, Email: id + "@example.com", Avatar: "https://cdn.example.com/" + id + ".png", CreatedAt: f.Tick()}
	f.create(u)
	return u
}

func (f *Fixtures) Video(id, ownerID string, mutate ...func(*model.Video)) *model.Video {
	v := &model.Video{ID: id, OwnerID: ownerID, Title: "Video " + id, Description: "about " + id, VideoURL: "https://cdn.example.com/" + id + ".mp4", ThumbnailURL: "https://cdn.example.com/" + id + ".jpg", DurationSeconds: 60, IsPublished: true, CreatedAt: f.Tick()}
	for _, m := range mutate {
		m(v)
	}
	f.create(v)
	if !v.IsPublished {
		// gorm 对 bool 零值会使用列默认值 true，这里显式回写
		if err := f.db.Model(v).Update("is_published", false).Error; err != nil {
			f.tb.Fatalf("unpublish: %v", err)
		}
	}
	return v
}

func (f *Fixtures) Comment(id, videoID, ownerID string) *model.Comment {
	c := &model.Comment{ID: id, VideoID: videoID, OwnerID: ownerID, Content: "comment " + id, CreatedAt: f.Tick()}
	f.create(c)
	return c
}

func (f *Fixtures) Tweet(id, ownerID string) *model.Tweet {
	t := &model.Tweet{ID: id, OwnerID: ownerID, Content: "tweet " + id, CreatedAt: f.Tick()}
	f.create(t)
	return t
}

func (f *Fixtures) Subscribe(subscriberID, channelID string) *model.Subscription {
	s := &model.Subscription{ID: uuid.NewString(), SubscriberID: subscriberID, ChannelID: channelID, CreatedAt: f.Tick()}
	f.create(s)
	return s
}

func (f *Fixtures) Like(userID string, target model.LikeTarget) *model.Like {
	l := &model.Like{ID: uuid.NewString(), UserID: userID, TargetKind: target.Kind, TargetID: target.ID, CreatedAt: f.Tick()}
	f.create(l)
	return l
}

func (f *Fixtures) Playlist(id, ownerID string, videoIDs ...string) *model.Playlist {
	p := &model.Playlist{ID: id, OwnerID: ownerID, Name: "Playlist " + id, CreatedAt: f.Tick()}
	f.create(p)
	for i, vid := range videoIDs {
		f.create(&model.PlaylistVideo{ID: uuid.NewString(), PlaylistID: id, VideoID: vid, Position: int64(i + 1), CreatedAt: f.Tick()})
	}
	return p
}
