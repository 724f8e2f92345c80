package model

import "time"

// User 用户身份；两个计数字段由关系链事务维护
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)"`
	Username       string    `gorm:"type:varchar(30);uniqueIndex:ux_users_username;not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex:ux_users_email;not null"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	DisplayName    string    `gorm:"type:varchar(100);not null"`
	Bio            *string   `gorm:"type:text"`
	ProfileImage   *string   `gorm:"type:text"`
	BannerImage    *string   `gorm:"type:text"`
	FollowersCount int64     `gorm:"not null;default:0"`
	FollowingCount int64     `gorm:"not null;default:0"`
	Verified       bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// ProfilePatch 部分更新：nil 字段保持不变
type ProfilePatch struct {
	DisplayName  *string
	Bio          *string
	ProfileImage *string
	BannerImage  *string
}

// Empty 没有任何字段需要更新
func (p ProfilePatch) Empty() bool {
	return p.DisplayName == nil && p.Bio == nil && p.ProfileImage == nil && p.BannerImage == nil
}

// Columns 需要更新的列及其取值
func (p ProfilePatch) Columns() map[string]any {
	cols := make(map[string]any, 4)
	if p.DisplayName != nil {
		cols["display_name"] = *p.DisplayName
	}
	if p.Bio != nil {
		cols["bio"] = *p.Bio
	}
	if p.ProfileImage != nil {
		cols["profile_image"] = *p.ProfileImage
	}
	if p.BannerImage != nil {
		cols["banner_image"] = *p.BannerImage
	}
	return cols
}

// Apply 把非 nil 字段写回 u
func (p ProfilePatch) Apply(u *User) {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
	if p.ProfileImage != nil {
		u.ProfileImage = p.ProfileImage
	}
	if p.BannerImage != nil {
		u.BannerImage = p.BannerImage
	}
}
