package model

// 计数器名称
const (
	CounterFollowers = "followers"
	CounterFollowing = "following"
	CounterLikes     = "likes"
)

// CounterDrift 一条计数与边表不一致的记录
type CounterDrift struct {
	ID      string `json:"id"`
	Counter string `json:"counter"`
	Stored  int64  `json:"stored"`
	Actual  int64  `json:"actual"`
}
