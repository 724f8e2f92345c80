package model

import "time"

// UserResponse 对外的用户资料，不含密码哈希
type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Bio            *string   `json:"bio"`
	ProfileImage   *string   `json:"profile_image"`
	BannerImage    *string   `json:"banner_image"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"created_at"`
}

// TweetResponse 带作者资料与当前查看者点赞状态的推文
type TweetResponse struct {
	ID            string       `json:"id"`
	Content       string       `json:"content"`
	ImageURL      *string      `json:"image_url"`
	LikesCount    int64        `json:"likes_count"`
	RetweetsCount int64        `json:"retweets_count"`
	RepliesCount  int64        `json:"replies_count"`
	CreatedAt     time.Time    `json:"created_at"`
	User          UserResponse `json:"user"`
	IsLiked       bool         `json:"is_liked"`
}

// AuthResponse 注册/登录结果
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToUserResponse 转为公开资料，不含口令哈希
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		Bio:            u.Bio,
		ProfileImage:   u.ProfileImage,
		BannerImage:    u.BannerImage,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		Verified:       u.Verified,
		CreatedAt:      u.CreatedAt,
	}
}

// ToTweetResponse 要求 Author 已加载
func ToTweetResponse(t *Tweet, isLiked bool) TweetResponse {
	return TweetResponse{
		ID:            t.ID,
		Content:       t.Content,
		ImageURL:      t.ImageURL,
		LikesCount:    t.LikesCount,
		RetweetsCount: t.RetweetsCount,
		RepliesCount:  t.RepliesCount,
		CreatedAt:     t.CreatedAt,
		User:          ToUserResponse(&t.Author),
		IsLiked:       isLiked,
	}
}

// ToTweetResponses liked 为当前用户点过赞的推文 id；匿名访问时可为 nil
func ToTweetResponses(tweets []*Tweet, liked map[string]bool) []TweetResponse {
	out := make([]TweetResponse, 0, len(tweets))
	for _, t := range tweets {
		out = append(out, ToTweetResponse(t, liked[t.ID]))
	}
	return out
}
