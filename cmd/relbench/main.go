// relbench 并发关注/取关/点赞压测，结束后核对计数是否与边表一致
//
//	N=10000 CONC=16 PAGE=50 go run ./cmd/relbench
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/internal/benchutil"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/auth"
	"github.com/d60-Lab/chirp/pkg/database"
	"github.com/d60-Lab/chirp/pkg/logger"
)

func main() {
	cfg := benchutil.Must(config.Load())
	logger.Init(cfg.Log)
	db := benchutil.Must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	defer func() { _ = database.Close(db) }()

	repos := repository.NewGormRepositories(db)
	svc := service.New(repos, auth.NewJWTService(cfg.JWT), auth.NewMemoryRevoker(), nil)
	ctx := context.Background()

	N := benchutil.EnvInt("N", 10000)
	CONC := benchutil.EnvInt("CONC", 8)
	PAGE := benchutil.EnvInt("PAGE", 50)

	// 一个大 V，N 个粉丝
	celeb := benchutil.Must(benchutil.SeedUsers(db, "celeb", 1))[0]
	fans := benchutil.Must(benchutil.SeedUsers(db, "fan", N))

	run := func(op func(followerID string) error) (time.Duration, []time.Duration, int) {
		feed := make(chan int, N)
		for i := 0; i < N; i++ {
			feed <- i
		}
		close(feed)

		var (
			mu    sync.Mutex
			recs  = make([]time.Duration, 0, N)
			fails int
			wg    sync.WaitGroup
		)
		t0 := time.Now()
		for w := 0; w < min(CONC, N); w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range feed {
					st := time.Now()
					err := op(fans[i].ID)
					d := time.Since(st)
					mu.Lock()
					recs = append(recs, d)
					if err != nil {
						fails++
					}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		return time.Since(t0), recs, fails
	}

	followDur, followRecs, followFails := run(func(id string) error {
		return svc.Relations.Follow(ctx, id, celeb.Username)
	})

	q0 := time.Now()
	_ = benchutil.Must(svc.Relations.ListFollowers(ctx, celeb.Username, 1, PAGE))
	followersDur := time.Since(q0)
	q1 := time.Now()
	_ = benchutil.Must(svc.Relations.ListFollowing(ctx, fans[0].Username, 1, PAGE))
	followingDur := time.Since(q1)

	// 取关后再重复关注一轮，制造计数的来回变化
	unfollowDur, unfollowRecs, unfollowFails := run(func(id string) error {
		return svc.Relations.Unfollow(ctx, id, celeb.Username)
	})
	_, _, refollowFails := run(func(id string) error {
		return svc.Relations.Follow(ctx, id, celeb.Username)
	})

	// 点赞风暴：第二轮全部是重复点赞，应全部失败且计数不变
	tw := benchutil.Must(svc.Tweets.CreatePost(ctx, celeb.ID, service.CreateTweetInput{Content: "relbench"}))
	likeDur, likeRecs, likeFails := run(func(id string) error {
		return svc.Engagement.Like(ctx, id, tw.ID)
	})
	_, _, dupLikeFails := run(func(id string) error {
		return svc.Engagement.Like(ctx, id, tw.ID)
	})
	unlikeDur, unlikeRecs, unlikeFails := run(func(id string) error {
		return svc.Engagement.Unlike(ctx, id, tw.ID)
	})

	report := benchutil.Must(svc.Reconciler.Check(ctx))
	stored := benchutil.Must(repos.Users.GetByID(ctx, celeb.ID))

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, driver=%s\n", N, CONC, PAGE, cfg.Database.Driver)
	fmt.Printf("Follow total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failed: %d\n",
		followDur, followDur/time.Duration(N), benchutil.Pct(followRecs, 0.50), benchutil.Pct(followRecs, 0.95), benchutil.Pct(followRecs, 0.99), followFails)
	fmt.Printf("Unfollow total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failed: %d\n",
		unfollowDur, unfollowDur/time.Duration(N), benchutil.Pct(unfollowRecs, 0.50), benchutil.Pct(unfollowRecs, 0.95), benchutil.Pct(unfollowRecs, 0.99), unfollowFails)
	fmt.Printf("Refollow failed: %d\n", refollowFails)
	fmt.Printf("Like total: %v, p50: %v, p95: %v, p99: %v, failed: %d, duplicate rejected: %d/%d\n",
		likeDur, benchutil.Pct(likeRecs, 0.50), benchutil.Pct(likeRecs, 0.95), benchutil.Pct(likeRecs, 0.99), likeFails, dupLikeFails, N)
	fmt.Printf("Unlike total: %v, p50: %v, p95: %v, p99: %v, failed: %d\n",
		unlikeDur, benchutil.Pct(unlikeRecs, 0.50), benchutil.Pct(unlikeRecs, 0.95), benchutil.Pct(unlikeRecs, 0.99), unlikeFails)
	fmt.Printf("Query followers(%d) latency: %v\n", PAGE, followersDur)
	fmt.Printf("Query following(%d) latency: %v\n", PAGE, followingDur)
	fmt.Printf("Celebrity followers_count=%d, drift=%v\n", stored.FollowersCount, report.ByCounter())

	if !report.Clean() || dupLikeFails != N {
		os.Exit(1)
	}
}
