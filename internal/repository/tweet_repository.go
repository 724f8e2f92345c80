package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/chirp/internal/model"
)

// TimelineLimit 时间线最多返回条数
const TimelineLimit = 50

type TweetRepository interface {
	Create(ctx context.Context, t *model.Tweet) error
	// GetByID 返回带作者资料的推文
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
	// DeleteOwned 仅当推文属于 ownerID 时删除（连同其点赞边）；否则 ErrNotFound
	DeleteOwned(ctx context.Context, id, ownerID string) error
	// ListByUsername 某用户全部推文，新到旧
	ListByUsername(ctx context.Context, username string) ([]*model.Tweet, error)
	// ListTimeline 关注的人 + 自己的推文，新到旧，最多 limit 条
	ListTimeline(ctx context.Context, viewerID string, limit int) ([]*model.Tweet, error)
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Create(ctx context.Context, t *model.Tweet) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error)
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	var t model.Tweet
	if err := r.db.WithContext(ctx).Joins("Author").Where("tweets.id = ?", id).Take(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *tweetRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&model.Tweet{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("tweet_id = ?", id).Delete(&model.Like{}).Error
	})
	return translate(err)
}

func (r *tweetRepository) ListByUsername(ctx context.Context, username string) ([]*model.Tweet, error) {
	db := r.db.WithContext(ctx)
	owner := db.Model(&model.User{}).Select("id").Where("username = ?", username)

	var res []*model.Tweet
	err := db.Joins("Author").
		Where("tweets.user_id IN (?)", owner).
		Order("tweets.created_at DESC, tweets.id DESC").
		Find(&res).Error
	return res, err
}

func (r *tweetRepository) ListTimeline(ctx context.Context, viewerID string, limit int) ([]*model.Tweet, error) {
	if limit <= 0 || limit > TimelineLimit {
		limit = TimelineLimit
	}
	db := r.db.WithContext(ctx)
	followings := db.Model(&model.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)

	var res []*model.Tweet
	err := db.Joins("Author").
		Where("tweets.user_id = ? OR tweets.user_id IN (?)", viewerID, followings).
		Order("tweets.created_at DESC, tweets.id DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}
