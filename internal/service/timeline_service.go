package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

var tracer = otel.Tracer("github.com/d60-Lab/chirp/internal/service")

// TimelineService 读时扇出：关注的人 + 自己的推文
type TimelineService interface {
	GetTimeline(ctx context.Context, userID string) ([]model.TweetResponse, error)
	GetUserPosts(ctx context.Context, username string) ([]model.TweetResponse, error)
}

type timelineService struct {
	tweets  repository.TweetRepository
	likes   repository.LikeRepository
	posts   TweetService
	metrics *metrics.Metrics
}

func NewTimelineService(tweets repository.TweetRepository, likes repository.LikeRepository, posts TweetService, m *metrics.Metrics) TimelineService {
	return &timelineService{tweets: tweets, likes: likes, posts: posts, metrics: m}
}

// GetTimeline 两次往返：一次取推文（含作者），一次批量取点赞状态
func (s *timelineService) GetTimeline(ctx context.Context, userID string) ([]model.TweetResponse, error) {
	ctx, span := tracer.Start(ctx, "timeline.get")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveTimeline(time.Since(start)) }()

	tweets, err := s.tweets.ListTimeline(ctx, userID, repository.TimelineLimit)
	if err != nil {
		span.RecordError(err)
		return nil, storageErr("timeline.list", err)
	}
	span.SetAttributes(attribute.Int("timeline.size", len(tweets)))
	if len(tweets) == 0 {
		return []model.TweetResponse{}, nil
	}

	ids := make([]string, len(tweets))
	for i, t := range tweets {
		ids[i] = t.ID
	}
	liked, err := s.likes.LikedAmong(ctx, userID, ids)
	if err != nil {
		span.RecordError(err)
		return nil, storageErr("timeline.liked", err)
	}
	return model.ToTweetResponses(tweets, liked), nil
}

// GetUserPosts 匿名视图，is_liked 恒为 false
func (s *timelineService) GetUserPosts(ctx context.Context, username string) ([]model.TweetResponse, error) {
	tweets, err := s.posts.ListByOwner(ctx, username)
	if err != nil {
		return nil, err
	}
	return model.ToTweetResponses(tweets, nil), nil
}
