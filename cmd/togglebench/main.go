package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidhub/config"
	"github.com/d60-Lab/vidhub/internal/model"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/internal/service"
	"github.com/d60-Lab/vidhub/pkg/database"
	"github.com/d60-Lab/vidhub/pkg/pagination"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// run 用 conc 个 worker 执行 n 次 op，返回每次耗时与冲突次数
func run(n, conc int, op func(i int) error) ([]time.Duration, int) {
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu        sync.Mutex
		recs      = make([]time.Duration, 0, n)
		conflicts int
		wg        sync.WaitGroup
	)
	for w := 0; w < min(conc, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				err := op(i)
				d := time.Since(st)
				mu.Lock()
				recs = append(recs, d)
				if err != nil {
					conflicts++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return recs, conflicts
}

func report(name string, total time.Duration, recs []time.Duration, conflicts int) {
	fmt.Printf("%s total: %v, per op: %v, p50: %v, p95: %v, p99: %v, conflicts: %d\n",
		name, total, total/time.Duration(max(len(recs), 1)), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99), conflicts)
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	defer database.Close(db)

	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	tweets := repository.NewTweetRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	likes := repository.NewLikeRepository(db)
	engagement := service.NewEngagementService(users, videos, comments, tweets, subs, likes)
	subscriptions := service.NewSubscriptionService(users, subs)

	ctx := context.Background()
	N := envInt("N", 10000)
	CONC := envInt("CONC", 8)
	PAGE := envInt("PAGE", 50)
	REPEAT := envInt("REPEAT", 101)

	// 种子：一个频道 + N 个订阅者
	channel := model.User{ID: uuid.NewString()}
	channel.Username, channel.Email = "ch_"+channel.ID[:8], channel.ID[:8]+"@example.com"
	must(0, db.Create(&channel).Error)
	fans := make([]model.User, N)
	for i := range fans {
		id := uuid.NewString()
		fans[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com"}
	}
	must(0, db.CreateInBatches(fans, 1000).Error)

	// 每个用户订阅一次
	t0 := time.Now()
	recs, conflicts := run(N, CONC, func(i int) error {
		_, err := engagement.ToggleSubscription(ctx, fans[i].ID, channel.ID)
		return err
	})
	report("subscribe", time.Since(t0), recs, conflicts)

	// 同一用户对同一频道并发切换
	hot := fans[0].ID
	var (
		mu      sync.Mutex
		on, off int
	)
	t1 := time.Now()
	hotRecs, hotConflict := run(REPEAT, CONC, func(int) error {
		res, err := engagement.ToggleSubscription(ctx, hot, channel.ID)
		if err != nil {
			return err
		}
		mu.Lock()
		if res.Active {
			on++
		} else {
			off++
		}
		mu.Unlock()
		return nil
	})
	report("contended toggle", time.Since(t1), hotRecs, hotConflict)

	var rows int64
	must(0, db.Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", hot, channel.ID).Count(&rows).Error)
	// 初始已订阅，所以最终行数 = 1 + on - off
	fmt.Printf("contended pair: on=%d off=%d rows=%d consistent=%v\n", on, off, rows, rows == int64(1+on-off) && rows <= 1)

	q0 := time.Now()
	page := must(subscriptions.Subscribers(ctx, channel.ID, pagination.New(1, PAGE)))
	fmt.Printf("N=%d, CONC=%d, PAGE=%d\n", N, CONC, PAGE)
	fmt.Printf("Query subscribers(%d) latency: %v, total=%d\n", PAGE, time.Since(q0), page.Total)
}
