package repository

import (
	"time"

	"gorm.io/gorm"
)

// Repositories 按存储后端组装的一组仓储
type Repositories struct {
	Users    UserRepository
	Tweets   TweetRepository
	Follows  FollowRepository
	Likes    LikeRepository
	Counters CounterRepository
}

// NewGormRepositories 所有仓储共用一个 gorm 连接
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    NewUserRepository(db),
		Tweets:   NewTweetRepository(db),
		Follows:  NewFollowRepository(db),
		Likes:    NewLikeRepository(db),
		Counters: NewCounterRepository(db),
	}
}

// saturatingDecrement 计数减一，最小为 0
func saturatingDecrement(column string) any {
	return gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
}

func now() time.Time { return time.Now().UTC() }
