package model

import "time"

// MaxTweetLength 推文最大字符数（按 Unicode 码点计）
const MaxTweetLength = 280

// Tweet 推文；LikesCount 仅由点赞事务维护
type Tweet struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `gorm:"type:varchar(36);not null;index:idx_tweets_user_created,priority:1"`
	Author        User      `gorm:"foreignKey:UserID;references:ID"`
	Content       string    `gorm:"type:varchar(280);not null"`
	ImageURL      *string   `gorm:"type:text"`
	LikesCount    int64     `gorm:"not null;default:0"`
	RetweetsCount int64     `gorm:"not null;default:0"`
	RepliesCount  int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null;index:idx_tweets_user_created,priority:2;index:idx_tweets_created"`
}

func (Tweet) TableName() string { return "tweets" }
