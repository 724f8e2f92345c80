package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/internal/repository/memory"
	"github.com/d60-Lab/chirp/internal/testutil"
)

// backend 两种存储实现跑同一套契约
type backend struct {
	name       string
	repos      repository.Repositories
	setCounter func(counter, id string, v int64)
}

func backends(t *testing.T) []backend {
	db := testutil.NewSQLiteDB(t)
	store := memory.NewStore()
	return []backend{
		{
			name:  "sqlite",
			repos: repository.NewGormRepositories(db),
			setCounter: func(counter, id string, v int64) {
				switch counter {
				case model.CounterFollowers:
					require.NoError(t, db.Model(&model.User{}).Where("id = ?", id).UpdateColumn("followers_count", v).Error)
				case model.CounterFollowing:
					require.NoError(t, db.Model(&model.User{}).Where("id = ?", id).UpdateColumn("following_count", v).Error)
				case model.CounterLikes:
					require.NoError(t, db.Model(&model.Tweet{}).Where("id = ?", id).UpdateColumn("likes_count", v).Error)
				}
			},
		},
		{name: "memory", repos: store.Repositories(), setCounter: store.SetCounter},
	}
}

func eachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	for _, b := range backends(t) {
		b := b
		t.Run(b.name, func(t *testing.T) { fn(t, b) })
	}
}

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func mkUser(t *testing.T, r repository.Repositories, name string) *model.User {
	t.Helper()
	u := &model.User{ID: "id-" + name, Username: name, Email: name + "@example.com", PasswordHash: "h", DisplayName: name, CreatedAt: base}
	require.NoError(t, r.Users.Create(context.Background(), u))
	return u
}

func mkTweet(t *testing.T, r repository.Repositories, id, userID string, at time.Time) {
	t.Helper()
	require.NoError(t, r.Tweets.Create(context.Background(), &model.Tweet{ID: id, UserID: userID, Content: "c-" + id, CreatedAt: at}))
}

func TestUserUniqueness(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		mkUser(t, b.repos, "alice")

		err := b.repos.Users.Create(ctx, &model.User{ID: "x1", Username: "alice", Email: "new@example.com", PasswordHash: "h", DisplayName: "A"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		err = b.repos.Users.Create(ctx, &model.User{ID: "x2", Username: "alice2", Email: "alice@example.com", PasswordHash: "h", DisplayName: "A"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		// 大小写敏感
		require.NoError(t, b.repos.Users.Create(ctx, &model.User{ID: "x3", Username: "Alice", Email: "Alice@example.com", PasswordHash: "h", DisplayName: "A"}))

		exists, err := b.repos.Users.ExistsByUsernameOrEmail(ctx, "nobody", "alice@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = b.repos.Users.ExistsByUsernameOrEmail(ctx, "nobody", "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUserLookupsAndProfile(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		alice := mkUser(t, b.repos, "alice")

		got, err := b.repos.Users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		got, err = b.repos.Users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		_, err = b.repos.Users.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		bio := "hello"
		updated, err := b.repos.Users.UpdateProfile(ctx, alice.ID, model.ProfilePatch{Bio: &bio})
		require.NoError(t, err)
		require.NotNil(t, updated.Bio)
		assert.Equal(t, "hello", *updated.Bio)
		assert.Equal(t, "alice", updated.DisplayName)

		again, err := b.repos.Users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, again.Bio)
		assert.Equal(t, "hello", *again.Bio)

		_, err = b.repos.Users.UpdateProfile(ctx, "missing", model.ProfilePatch{Bio: &bio})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		users, err := b.repos.Users.ListByIDs(ctx, []string{alice.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestFollowCountersMoveWithEdges(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a, c := mkUser(t, b.repos, "alice"), mkUser(t, b.repos, "bob")

		require.NoError(t, b.repos.Follows.Create(ctx, a.ID, c.ID))
		assert.ErrorIs(t, b.repos.Follows.Create(ctx, a.ID, c.ID), repository.ErrDuplicate)

		ok, err := b.repos.Follows.Exists(ctx, a.ID, c.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		au, _ := b.repos.Users.GetByID(ctx, a.ID)
		bu, _ := b.repos.Users.GetByID(ctx, c.ID)
		assert.EqualValues(t, 1, au.FollowingCount)
		assert.EqualValues(t, 0, au.FollowersCount)
		assert.EqualValues(t, 1, bu.FollowersCount)

		require.NoError(t, b.repos.Follows.Delete(ctx, a.ID, c.ID))
		assert.ErrorIs(t, b.repos.Follows.Delete(ctx, a.ID, c.ID), repository.ErrNotFound)

		au, _ = b.repos.Users.GetByID(ctx, a.ID)
		bu, _ = b.repos.Users.GetByID(ctx, c.ID)
		assert.EqualValues(t, 0, au.FollowingCount)
		assert.EqualValues(t, 0, bu.FollowersCount)
	})
}

func TestFollowUnknownUserLeavesNothing(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a := mkUser(t, b.repos, "alice")

		require.ErrorIs(t, b.repos.Follows.Create(ctx, a.ID, "ghost"), repository.ErrNotFound)
		require.ErrorIs(t, b.repos.Follows.Create(ctx, "ghost", a.ID), repository.ErrNotFound)

		ok, err := b.repos.Follows.Exists(ctx, a.ID, "ghost")
		require.NoError(t, err)
		assert.False(t, ok)
		au, _ := b.repos.Users.GetByID(ctx, a.ID)
		assert.EqualValues(t, 0, au.FollowingCount)
	})
}

func TestDecrementSaturatesAtZero(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a, c := mkUser(t, b.repos, "alice"), mkUser(t, b.repos, "bob")
		require.NoError(t, b.repos.Follows.Create(ctx, a.ID, c.ID))

		b.setCounter(model.CounterFollowers, c.ID, 0)
		require.NoError(t, b.repos.Follows.Delete(ctx, a.ID, c.ID))

		bu, _ := b.repos.Users.GetByID(ctx, c.ID)
		assert.EqualValues(t, 0, bu.FollowersCount)
	})
}

func TestFollowListsNewestFirstWithPaging(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		hub := mkUser(t, b.repos, "hub")
		for i := 0; i < 5; i++ {
			u := mkUser(t, b.repos, fmt.Sprintf("fan%d", i))
			require.NoError(t, b.repos.Follows.Create(ctx, u.ID, hub.ID))
			time.Sleep(2 * time.Millisecond)
		}

		page, err := b.repos.Follows.ListFollowers(ctx, hub.ID, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "id-fan4", page[0].FollowerID)
		assert.Equal(t, "id-fan3", page[1].FollowerID)

		rest, err := b.repos.Follows.ListFollowers(ctx, hub.ID, 4, 10)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "id-fan0", rest[0].FollowerID)

		none, err := b.repos.Follows.ListFollowings(ctx, hub.ID, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestLikeLifecycle(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a := mkUser(t, b.repos, "alice")
		mkTweet(t, b.repos, "t1", a.ID, base)
		mkTweet(t, b.repos, "t2", a.ID, base.Add(time.Second))

		require.NoError(t, b.repos.Likes.Create(ctx, a.ID, "t1"))
		assert.ErrorIs(t, b.repos.Likes.Create(ctx, a.ID, "t1"), repository.ErrDuplicate)
		assert.ErrorIs(t, b.repos.Likes.Create(ctx, a.ID, "nope"), repository.ErrNotFound)

		tw, err := b.repos.Tweets.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, tw.LikesCount)

		liked, err := b.repos.Likes.LikedAmong(ctx, a.ID, []string{"t1", "t2", "zz"})
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"t1": true}, liked)

		require.NoError(t, b.repos.Likes.Delete(ctx, a.ID, "t1"))
		assert.ErrorIs(t, b.repos.Likes.Delete(ctx, a.ID, "t1"), repository.ErrNotFound)
		tw, _ = b.repos.Tweets.GetByID(ctx, "t1")
		assert.EqualValues(t, 0, tw.LikesCount)
	})
}

func TestTweetGetAndDeleteOwned(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a, c := mkUser(t, b.repos, "alice"), mkUser(t, b.repos, "bob")
		mkTweet(t, b.repos, "t1", a.ID, base)
		require.NoError(t, b.repos.Likes.Create(ctx, c.ID, "t1"))

		tw, err := b.repos.Tweets.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "alice", tw.Author.Username)

		assert.ErrorIs(t, b.repos.Tweets.DeleteOwned(ctx, "t1", c.ID), repository.ErrNotFound)
		require.NoError(t, b.repos.Tweets.DeleteOwned(ctx, "t1", a.ID))
		assert.ErrorIs(t, b.repos.Tweets.DeleteOwned(ctx, "t1", a.ID), repository.ErrNotFound)

		_, err = b.repos.Tweets.GetByID(ctx, "t1")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		ok, err := b.repos.Likes.Exists(ctx, c.ID, "t1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestTweetCreateUnknownAuthor(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		err := b.repos.Tweets.Create(context.Background(), &model.Tweet{ID: "t1", UserID: "ghost", Content: "x"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestListByUsername(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a, c := mkUser(t, b.repos, "alice"), mkUser(t, b.repos, "bob")
		mkTweet(t, b.repos, "a1", a.ID, base)
		mkTweet(t, b.repos, "a2", a.ID, base.Add(time.Minute))
		mkTweet(t, b.repos, "b1", c.ID, base.Add(2*time.Minute))

		got, err := b.repos.Tweets.ListByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a2", got[0].ID)
		assert.Equal(t, "a1", got[1].ID)
		assert.Equal(t, "alice", got[0].Author.Username)

		none, err := b.repos.Tweets.ListByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestTimelineScopeOrderAndLimit(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		viewer := mkUser(t, b.repos, "viewer")
		friend := mkUser(t, b.repos, "friend")
		stranger := mkUser(t, b.repos, "stranger")
		require.NoError(t, b.repos.Follows.Create(ctx, viewer.ID, friend.ID))

		mkTweet(t, b.repos, "s1", stranger.ID, base.Add(time.Hour))
		mkTweet(t, b.repos, "v1", viewer.ID, base)
		mkTweet(t, b.repos, "f1", friend.ID, base.Add(time.Second))
		// 同一时刻按 id 倒序
		mkTweet(t, b.repos, "f2", friend.ID, base.Add(2*time.Second))
		mkTweet(t, b.repos, "f3", friend.ID, base.Add(2*time.Second))

		got, err := b.repos.Tweets.ListTimeline(ctx, viewer.ID, repository.TimelineLimit)
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, tw := range got {
			ids = append(ids, tw.ID)
		}
		assert.Equal(t, []string{"f3", "f2", "f1", "v1"}, ids)
		assert.Equal(t, "friend", got[0].Author.Username)

		for i := 0; i < 60; i++ {
			mkTweet(t, b.repos, fmt.Sprintf("bulk%02d", i), friend.ID, base.Add(time.Duration(i+10)*time.Second))
		}
		got, err = b.repos.Tweets.ListTimeline(ctx, viewer.ID, 1000)
		require.NoError(t, err)
		require.Len(t, got, repository.TimelineLimit)
		assert.Equal(t, "bulk59", got[0].ID)
	})
}

func TestCounterDriftAndRepair(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a, c := mkUser(t, b.repos, "alice"), mkUser(t, b.repos, "bob")
		require.NoError(t, b.repos.Follows.Create(ctx, a.ID, c.ID))
		mkTweet(t, b.repos, "t1", a.ID, base)
		require.NoError(t, b.repos.Likes.Create(ctx, c.ID, "t1"))

		drift, err := b.repos.Counters.FindDrift(ctx)
		require.NoError(t, err)
		assert.Empty(t, drift)

		b.setCounter(model.CounterFollowers, c.ID, 7)
		b.setCounter(model.CounterLikes, "t1", 0)

		drift, err = b.repos.Counters.FindDrift(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []model.CounterDrift{
			{ID: c.ID, Counter: model.CounterFollowers, Stored: 7, Actual: 1},
			{ID: "t1", Counter: model.CounterLikes, Stored: 0, Actual: 1},
		}, drift)

		n, err := b.repos.Counters.Repair(ctx, drift)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		drift, err = b.repos.Counters.FindDrift(ctx)
		require.NoError(t, err)
		assert.Empty(t, drift)
		bu, _ := b.repos.Users.GetByID(ctx, c.ID)
		assert.EqualValues(t, 1, bu.FollowersCount)
	})
}

func TestConcurrentLikeFromSameUser(t *testing.T) {
	eachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		a := mkUser(t, b.repos, "alice")
		mkTweet(t, b.repos, "t1", a.ID, base)

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = b.repos.Likes.Create(ctx, a.ID, "t1")
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, repository.ErrDuplicate)
			}
		}
		assert.Equal(t, 1, succeeded)
		tw, err := b.repos.Tweets.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, tw.LikesCount)
	})
}
