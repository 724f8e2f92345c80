package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/chirp/internal/model"
)

// CounterRepository 比对冗余计数与边表，并按边表重算
type CounterRepository interface {
	FindDrift(ctx context.Context) ([]model.CounterDrift, error)
	// Repair 在一个事务内按边表重算 drift 涉及的计数，返回修复的行数
	Repair(ctx context.Context, drift []model.CounterDrift) (int, error)
}

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) CounterRepository { return &counterRepository{db: db} }

type driftRow struct {
	ID     string
	Stored int64
	Actual int64
}

var driftQueries = []struct {
	counter string
	sql     string
}{
	{model.CounterFollowers, `
		SELECT u.id AS id, u.followers_count AS stored, COUNT(f.id) AS actual
		FROM users u LEFT JOIN follows f ON f.following_id = u.id
		GROUP BY u.id, u.followers_count
		HAVING u.followers_count <> COUNT(f.id)`},
	{model.CounterFollowing, `
		SELECT u.id AS id, u.following_count AS stored, COUNT(f.id) AS actual
		FROM users u LEFT JOIN follows f ON f.follower_id = u.id
		GROUP BY u.id, u.following_count
		HAVING u.following_count <> COUNT(f.id)`},
	{model.CounterLikes, `
		SELECT t.id AS id, t.likes_count AS stored, COUNT(l.id) AS actual
		FROM tweets t LEFT JOIN likes l ON l.tweet_id = t.id
		GROUP BY t.id, t.likes_count
		HAVING t.likes_count <> COUNT(l.id)`},
}

func (r *counterRepository) FindDrift(ctx context.Context) ([]model.CounterDrift, error) {
	var out []model.CounterDrift
	for _, q := range driftQueries {
		var rows []driftRow
		if err := r.db.WithContext(ctx).Raw(q.sql).Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			out = append(out, model.CounterDrift{ID: row.ID, Counter: q.counter, Stored: row.Stored, Actual: row.Actual})
		}
	}
	return out, nil
}

var repairSQL = []struct {
	counter string
	table   string
	sql     string
}{
	{model.CounterFollowers, "users", `UPDATE users SET followers_count = (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) WHERE id IN ?`},
	{model.CounterFollowing, "users", `UPDATE users SET following_count = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) WHERE id IN ?`},
	{model.CounterLikes, "tweets", `UPDATE tweets SET likes_count = (SELECT COUNT(*) FROM likes WHERE likes.tweet_id = tweets.id) WHERE id IN ?`},
}

// Repair 先锁住漂移行再按边表重算。
// postgres READ COMMITTED 下，重算语句的快照取在拿到行锁之后，
// 并发的关注/点赞要么已提交被计入，要么阻塞在计数更新上、在修复提交后再 +1/-1。
func (r *counterRepository) Repair(ctx context.Context, drift []model.CounterDrift) (int, error) {
	byCounter := make(map[string][]string)
	byTable := make(map[string][]string)
	for _, d := range drift {
		byCounter[d.Counter] = append(byCounter[d.Counter], d.ID)
	}
	for _, q := range repairSQL {
		byTable[q.table] = append(byTable[q.table], byCounter[q.counter]...)
	}

	var repaired int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repaired = 0
		if tx.Dialector.Name() == "postgres" {
			for _, table := range []string{"users", "tweets"} {
				if err := lockRows(tx, table, byTable[table]); err != nil {
					return err
				}
			}
		}
		for _, q := range repairSQL {
			ids := byCounter[q.counter]
			if len(ids) == 0 {
				continue
			}
			res := tx.Exec(q.sql, ids)
			if res.Error != nil {
				return res.Error
			}
			repaired += int(res.RowsAffected)
		}
		return nil
	})
	return repaired, err
}

// lockRows 按 id 排序一次性加行锁；sqlite 单写者无需加锁
func lockRows(tx *gorm.DB, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ids = uniqueSorted(ids)
	var locked []string
	return tx.Table(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &locked).Error
}

func uniqueSorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	n := 0
	for i, id := range out {
		if i == 0 || id != out[n-1] {
			out[n] = id
			n++
		}
	}
	return out[:n]
}
