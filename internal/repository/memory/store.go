// Package memory 进程内仓储实现，契约与 gorm 版一致。
// 多步写操作在同一把锁内完成，边与计数要么一起可见，要么都不可见
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
)

type pair struct{ a, b string }

// Store 四类实体的索引表
type Store struct {
	mu sync.RWMutex

	users      map[string]*model.User
	byUsername map[string]string
	byEmail    map[string]string

	tweets map[string]*model.Tweet

	follows map[pair]*model.Follow // (follower, following)
	likes   map[pair]*model.Like   // (user, tweet)

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]*model.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		tweets:     make(map[string]*model.Tweet),
		follows:    make(map[pair]*model.Follow),
		likes:      make(map[pair]*model.Like),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositories 基于新建 Store 组装仓储
func NewRepositories() repository.Repositories {
	return NewStore().Repositories()
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    userRepo{s},
		Tweets:   tweetRepo{s},
		Follows:  followRepo{s},
		Likes:    likeRepo{s},
		Counters: counterRepo{s},
	}
}

// SetCounter 直接改写计数而不动边表，测试中用于制造漂移
func (s *Store) SetCounter(counter, id string, v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch counter {
	case model.CounterFollowers:
		if u, ok := s.users[id]; ok {
			u.FollowersCount = v
		}
	case model.CounterFollowing:
		if u, ok := s.users[id]; ok {
			u.FollowingCount = v
		}
	case model.CounterLikes:
		if t, ok := s.tweets[id]; ok {
			t.LikesCount = v
		}
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

// tweetWithAuthor 调用方需持有 s.mu
func (s *Store) tweetWithAuthor(t *model.Tweet) *model.Tweet {
	c := *t
	if u, ok := s.users[t.UserID]; ok {
		c.Author = *u
	}
	return &c
}

func sortNewestFirst(ts []*model.Tweet) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.After(ts[j].CreatedAt)
		}
		return ts[i].ID > ts[j].ID
	})
}

func decr(v int64) int64 {
	if v > 0 {
		return v - 1
	}
	return 0
}

func ctxErr(ctx context.Context) error { return ctx.Err() }

// ---- users ----

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *model.User) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.byUsername[u.Username]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = copyUser(u)
	s.byUsername[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.byUsername[username]
	r.s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.byEmail[email]
	r.s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r userRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, a := r.s.byUsername[username]
	_, b := r.s.byEmail[email]
	return a || b, nil
}

func (r userRepo) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(u)
	return copyUser(u), nil
}

func (r userRepo) ListByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

// ---- tweets ----

type tweetRepo struct{ s *Store }

func (r tweetRepo) Create(ctx context.Context, t *model.Tweet) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.UserID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := s.tweets[t.ID]; ok {
		return repository.ErrDuplicate
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	c := *t
	c.Author = model.User{}
	s.tweets[t.ID] = &c
	return nil
}

func (r tweetRepo) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.tweetWithAuthor(t), nil
}

func (r tweetRepo) DeleteOwned(ctx context.Context, id, ownerID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tweets[id]
	if !ok || t.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.tweets, id)
	for k := range s.likes {
		if k.b == id {
			delete(s.likes, k)
		}
	}
	return nil
}

func (r tweetRepo) ListByUsername(ctx context.Context, username string) ([]*model.Tweet, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	ownerID, ok := s.byUsername[username]
	if !ok {
		return []*model.Tweet{}, nil
	}
	out := make([]*model.Tweet, 0)
	for _, t := range s.tweets {
		if t.UserID == ownerID {
			out = append(out, s.tweetWithAuthor(t))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r tweetRepo) ListTimeline(ctx context.Context, viewerID string, limit int) ([]*model.Tweet, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > repository.TimelineLimit {
		limit = repository.TimelineLimit
	}
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	authors := map[string]bool{viewerID: true}
	for k := range s.follows {
		if k.a == viewerID {
			authors[k.b] = true
		}
	}
	out := make([]*model.Tweet, 0)
	for _, t := range s.tweets {
		if authors[t.UserID] {
			out = append(out, s.tweetWithAuthor(t))
		}
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- follows ----

type followRepo struct{ s *Store }

func (r followRepo) Create(ctx context.Context, followerID, followingID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pair{followerID, followingID}
	if _, ok := s.follows[k]; ok {
		return repository.ErrDuplicate
	}
	follower, ok1 := s.users[followerID]
	following, ok2 := s.users[followingID]
	if !ok1 || !ok2 {
		return repository.ErrNotFound
	}
	s.follows[k] = &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID, CreatedAt: s.now()}
	follower.FollowingCount++
	following.FollowersCount++
	return nil
}

func (r followRepo) Delete(ctx context.Context, followerID, followingID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pair{followerID, followingID}
	if _, ok := s.follows[k]; !ok {
		return repository.ErrNotFound
	}
	delete(s.follows, k)
	if u, ok := s.users[followerID]; ok {
		u.FollowingCount = decr(u.FollowingCount)
	}
	if u, ok := s.users[followingID]; ok {
		u.FollowersCount = decr(u.FollowersCount)
	}
	return nil
}

func (r followRepo) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.follows[pair{followerID, followingID}]
	return ok, nil
}

func (r followRepo) ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error) {
	return r.list(ctx, func(f *model.Follow) bool { return f.FollowerID == followerID }, offset, limit)
}

func (r followRepo) ListFollowers(ctx context.Context, followingID string, offset, limit int) ([]*model.Follow, error) {
	return r.list(ctx, func(f *model.Follow) bool { return f.FollowingID == followingID }, offset, limit)
}

func (r followRepo) list(ctx context.Context, match func(*model.Follow) bool, offset, limit int) ([]*model.Follow, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	all := make([]*model.Follow, 0)
	for _, f := range r.s.follows {
		if match(f) {
			c := *f
			all = append(all, &c)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if offset >= len(all) {
		return []*model.Follow{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// ---- likes ----

type likeRepo struct{ s *Store }

func (r likeRepo) Exists(ctx context.Context, userID, tweetID string) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.likes[pair{userID, tweetID}]
	return ok, nil
}

func (r likeRepo) Create(ctx context.Context, userID, tweetID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pair{userID, tweetID}
	if _, ok := s.likes[k]; ok {
		return repository.ErrDuplicate
	}
	t, ok := s.tweets[tweetID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	s.likes[k] = &model.Like{ID: uuid.New().String(), UserID: userID, TweetID: tweetID, CreatedAt: s.now()}
	t.LikesCount++
	return nil
}

func (r likeRepo) Delete(ctx context.Context, userID, tweetID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pair{userID, tweetID}
	if _, ok := s.likes[k]; !ok {
		return repository.ErrNotFound
	}
	delete(s.likes, k)
	if t, ok := s.tweets[tweetID]; ok {
		t.LikesCount = decr(t.LikesCount)
	}
	return nil
}

func (r likeRepo) LikedAmong(ctx context.Context, userID string, tweetIDs []string) (map[string]bool, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	liked := make(map[string]bool, len(tweetIDs))
	for _, id := range tweetIDs {
		if _, ok := r.s.likes[pair{userID, id}]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

// ---- counters ----

type counterRepo struct{ s *Store }

// actualCounts 调用方需持有 s.mu
func (s *Store) actualCounts() (followers, following, likes map[string]int64) {
	followers = make(map[string]int64)
	following = make(map[string]int64)
	likes = make(map[string]int64)
	for k := range s.follows {
		following[k.a]++
		followers[k.b]++
	}
	for k := range s.likes {
		likes[k.b]++
	}
	return
}

func (r counterRepo) FindDrift(ctx context.Context) ([]model.CounterDrift, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	followers, following, likes := s.actualCounts()

	var out []model.CounterDrift
	for id, u := range s.users {
		if u.FollowersCount != followers[id] {
			out = append(out, model.CounterDrift{ID: id, Counter: model.CounterFollowers, Stored: u.FollowersCount, Actual: followers[id]})
		}
		if u.FollowingCount != following[id] {
			out = append(out, model.CounterDrift{ID: id, Counter: model.CounterFollowing, Stored: u.FollowingCount, Actual: following[id]})
		}
	}
	for id, t := range s.tweets {
		if t.LikesCount != likes[id] {
			out = append(out, model.CounterDrift{ID: id, Counter: model.CounterLikes, Stored: t.LikesCount, Actual: likes[id]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Counter != out[j].Counter {
			return out[i].Counter < out[j].Counter
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r counterRepo) Repair(ctx context.Context, drift []model.CounterDrift) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	followers, following, likes := s.actualCounts()

	repaired := 0
	for _, d := range drift {
		switch d.Counter {
		case model.CounterFollowers:
			if u, ok := s.users[d.ID]; ok {
				u.FollowersCount = followers[d.ID]
				repaired++
			}
		case model.CounterFollowing:
			if u, ok := s.users[d.ID]; ok {
				u.FollowingCount = following[d.ID]
				repaired++
			}
		case model.CounterLikes:
			if t, ok := s.tweets[d.ID]; ok {
				t.LikesCount = likes[d.ID]
				repaired++
			}
		}
	}
	return repaired, nil
}
