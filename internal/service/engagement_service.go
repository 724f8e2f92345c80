package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/apperr"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// EngagementService 点赞账本；每个 (user, tweet) 只有 liked / not-liked 两态
type EngagementService interface {
	Like(ctx context.Context, userID, tweetID string) error
	Unlike(ctx context.Context, userID, tweetID string) error
}

type engagementService struct {
	tweets  repository.TweetRepository
	likes   repository.LikeRepository
	metrics *metrics.Metrics
}

func NewEngagementService(tweets repository.TweetRepository, likes repository.LikeRepository, m *metrics.Metrics) EngagementService {
	return &engagementService{tweets: tweets, likes: likes, metrics: m}
}

func (s *engagementService) Like(ctx context.Context, userID, tweetID string) (err error) {
	defer func() { s.metrics.ObserveMutation("like", err) }()

	if _, err := s.tweets.GetByID(ctx, tweetID); err != nil {
		return mapRepoErr("like.tweet", err, MsgTweetNotFound, "")
	}
	liked, err := s.likes.Exists(ctx, userID, tweetID)
	if err != nil {
		return storageErr("like.exists", err)
	}
	if liked {
		return apperr.Conflict(MsgAlreadyLiked)
	}
	// 预检与插入之间的并发重复由唯一约束兜底，整个事务回滚
	err = s.likes.Create(ctx, userID, tweetID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict(MsgAlreadyLiked)
	case errors.Is(err, repository.ErrNotFound):
		// 推文在预检后被删除
		return apperr.NotFound(MsgTweetNotFound)
	default:
		return storageErr("like.create", err)
	}
}

func (s *engagementService) Unlike(ctx context.Context, userID, tweetID string) (err error) {
	defer func() { s.metrics.ObserveMutation("unlike", err) }()

	if err := s.likes.Delete(ctx, userID, tweetID); err != nil {
		return mapRepoErr("unlike", err, MsgLikeNotFound, "")
	}
	return nil
}
