// timelinebench 拉模式时间线读压测：作者发帖、读者点赞，再并发读取时间线
//
//	AUTHORS=200 POSTS=5 READS=2000 CONC=8 go run ./cmd/timelinebench
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/internal/benchutil"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/auth"
	"github.com/d60-Lab/chirp/pkg/database"
	"github.com/d60-Lab/chirp/pkg/logger"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

func main() {
	cfg := benchutil.Must(config.Load())
	logger.Init(cfg.Log)
	db := benchutil.Must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	defer func() { _ = database.Close(db) }()

	m := metrics.New()
	svc := service.New(repository.NewGormRepositories(db), auth.NewJWTService(cfg.JWT), auth.NewMemoryRevoker(), m)
	ctx := context.Background()

	AUTHORS := benchutil.EnvInt("AUTHORS", 200)
	POSTS := benchutil.EnvInt("POSTS", 5)
	READS := benchutil.EnvInt("READS", 2000)
	CONC := benchutil.EnvInt("CONC", 8)

	viewer := benchutil.Must(benchutil.SeedUsers(db, "reader", 1))[0]
	authors := benchutil.Must(benchutil.SeedUsers(db, "author", AUTHORS))

	p0 := time.Now()
	var likes int
	for i, a := range authors {
		if err := svc.Relations.Follow(ctx, viewer.ID, a.Username); err != nil {
			panic(err)
		}
		for j := 0; j < POSTS; j++ {
			tw := benchutil.Must(svc.Tweets.CreatePost(ctx, a.ID, service.CreateTweetInput{Content: fmt.Sprintf("post %d from %s", j, a.Username)}))
			// 每隔一个作者点赞其最新一条
			if i%2 == 0 && j == POSTS-1 {
				if err := svc.Engagement.Like(ctx, viewer.ID, tw.ID); err != nil {
					panic(err)
				}
				likes++
			}
		}
	}
	publishDur := time.Since(p0)

	var (
		mu    sync.Mutex
		recs  = make([]time.Duration, 0, READS)
		liked int
		wg    sync.WaitGroup
	)
	feed := make(chan struct{}, READS)
	for i := 0; i < READS; i++ {
		feed <- struct{}{}
	}
	close(feed)

	t0 := time.Now()
	for w := 0; w < min(CONC, READS); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range feed {
				st := time.Now()
				items := benchutil.Must(svc.Timeline.GetTimeline(ctx, viewer.ID))
				d := time.Since(st)
				n := 0
				for _, it := range items {
					if it.IsLiked {
						n++
					}
				}
				mu.Lock()
				recs = append(recs, d)
				liked = n
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	readDur := time.Since(t0)

	fmt.Printf("AUTHORS=%d, POSTS=%d, READS=%d, CONC=%d\n", AUTHORS, POSTS, READS, CONC)
	fmt.Printf("Seed follows+posts total: %v, likes: %d\n", publishDur, likes)
	fmt.Printf("Timeline read total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		readDur, readDur/time.Duration(READS), benchutil.Pct(recs, 0.50), benchutil.Pct(recs, 0.95), benchutil.Pct(recs, 0.99))
	fmt.Printf("Liked items visible on last read: %d\n", liked)
}
