package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/chirp/internal/model"
)

type FollowRepository interface {
	// Create 插入关注边并同步两侧计数（同一事务）；重复关注返回 ErrDuplicate
	Create(ctx context.Context, followerID, followingID string) error
	// Delete 删除关注边并同步两侧计数；边不存在返回 ErrNotFound
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, followingID string, offset, limit int) ([]*model.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID, CreatedAt: now()}
		if err := tx.Omit(clause.Associations).Create(f).Error; err != nil {
			return err
		}
		if err := bumpCounter(tx, followerID, "following_count", gorm.Expr("following_count + ?", 1)); err != nil {
			return err
		}
		return bumpCounter(tx, followingID, "followers_count", gorm.Expr("followers_count + ?", 1))
	})
	return translate(err)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := bumpCounter(tx, followerID, "following_count", saturatingDecrement("following_count")); err != nil {
			return err
		}
		return bumpCounter(tx, followingID, "followers_count", saturatingDecrement("followers_count"))
	})
	return translate(err)
}

// bumpCounter 更新一行用户计数；用户不存在时整个事务回滚
func bumpCounter(tx *gorm.DB, userID, column string, expr any) error {
	res := tx.Model(&model.User{}).Where("id = ?", userID).UpdateColumn(column, expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", followerID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followingID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).
		Where("following_id = ?", followingID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}
