package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/chirp/internal/model"
)

type LikeRepository interface {
	Exists(ctx context.Context, userID, tweetID string) (bool, error)
	// Create 插入点赞边并给推文 likes_count +1；并发重复时整体回滚并返回 ErrDuplicate
	Create(ctx context.Context, userID, tweetID string) error
	// Delete 删除点赞边并 likes_count -1；边不存在返回 ErrNotFound
	Delete(ctx context.Context, userID, tweetID string) error
	// LikedAmong 一次查询返回 tweetIDs 中 userID 点过赞的集合
	LikedAmong(ctx context.Context, userID string, tweetIDs []string) (map[string]bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Exists(ctx context.Context, userID, tweetID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) Create(ctx context.Context, userID, tweetID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l := &model.Like{ID: uuid.New().String(), UserID: userID, TweetID: tweetID, CreatedAt: now()}
		if err := tx.Omit(clause.Associations).Create(l).Error; err != nil {
			return err
		}
		return bumpLikes(tx, tweetID, gorm.Expr("likes_count + ?", 1))
	})
	return translate(err)
}

func (r *likeRepository) Delete(ctx context.Context, userID, tweetID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND tweet_id = ?", userID, tweetID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return bumpLikes(tx, tweetID, saturatingDecrement("likes_count"))
	})
	return translate(err)
}

func bumpLikes(tx *gorm.DB, tweetID string, expr any) error {
	res := tx.Model(&model.Tweet{}).Where("id = ?", tweetID).UpdateColumn("likes_count", expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *likeRepository) LikedAmong(ctx context.Context, userID string, tweetIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return liked, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
		Pluck("tweet_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
