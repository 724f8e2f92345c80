package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）
type Follow struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_follows_pair,priority:1;check:chk_follows_not_self,follower_id <> following_id"`
	FollowingID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_follows_pair,priority:2;index:idx_follows_following"`
	Follower    User      `gorm:"foreignKey:FollowerID;references:ID"`
	Following   User      `gorm:"foreignKey:FollowingID;references:ID"`
	// 复合唯一键，避免重复关注
	// 唯一索引 ux_follows_pair = (follower_id, following_id)
	CreatedAt time.Time `gorm:"not null"`
}

func (Follow) TableName() string { return "follows" }
