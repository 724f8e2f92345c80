package model

import "time"

// Like 点赞关系，(user_id, tweet_id) 唯一
type Like struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_likes_pair,priority:1"`
	TweetID   string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_likes_pair,priority:2;index:idx_likes_tweet"`
	User      User      `gorm:"foreignKey:UserID;references:ID"`
	Tweet     Tweet     `gorm:"foreignKey:TweetID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Like) TableName() string { return "likes" }
