// Package benchutil cmd 下压测程序共用的小工具
package benchutil

import (
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/chirp/internal/model"
)

func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// EnvInt 读取正整数环境变量，缺省或非法时返回 def
func EnvInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Pct 取分位数（最近秩）
func Pct(vs []time.Duration, p float64) time.Duration {
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

// SeedUsers 批量写入 n 个用户，跳过 bcrypt
func SeedUsers(db *gorm.DB, prefix string, n int) ([]model.User, error) {
	users := make([]model.User, n)
	now := time.Now().UTC()
	for i := range users {
		id := uuid.NewString()
		name := prefix + id[:8]
		users[i] = model.User{ID: id, Username: name, Email: name + "@bench.local", PasswordHash: "x", DisplayName: name, CreatedAt: now}
	}
	if err := db.Omit(clause.Associations).CreateInBatches(&users, 1000).Error; err != nil {
		return nil, err
	}
	return users, nil
}
