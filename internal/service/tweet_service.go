package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/apperr"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// CreateTweetInput 发推参数
type CreateTweetInput struct {
	Content  string  `json:"content" validate:"required,min=1,max=280"`
	ImageURL *string `json:"image_url"`
}

// TweetService 内容存储
type TweetService interface {
	CreatePost(ctx context.Context, ownerID string, in CreateTweetInput) (*model.TweetResponse, error)
	DeletePost(ctx context.Context, id, requesterID string) error
	GetByID(ctx context.Context, id, viewerID string) (*model.TweetResponse, error)
	ListByOwner(ctx context.Context, username string) ([]*model.Tweet, error)
}

type tweetService struct {
	tweets  repository.TweetRepository
	likes   repository.LikeRepository
	metrics *metrics.Metrics
}

func NewTweetService(tweets repository.TweetRepository, likes repository.LikeRepository, m *metrics.Metrics) TweetService {
	return &tweetService{tweets: tweets, likes: likes, metrics: m}
}

func (s *tweetService) CreatePost(ctx context.Context, ownerID string, in CreateTweetInput) (resp *model.TweetResponse, err error) {
	defer func() { s.metrics.ObserveMutation("create_tweet", err) }()

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(in.Content); n < 1 || n > model.MaxTweetLength {
		return nil, apperr.Validation("Validation error: content must be between 1 and 280 characters")
	}

	t := &model.Tweet{ID: uuid.New().String(), UserID: ownerID, Content: in.Content, ImageURL: in.ImageURL}
	if err := s.tweets.Create(ctx, t); err != nil {
		return nil, mapRepoErr("tweet.create", err, MsgUserNotFound, "")
	}
	created, err := s.tweets.GetByID(ctx, t.ID)
	if err != nil {
		return nil, storageErr("tweet.reload", err)
	}
	out := model.ToTweetResponse(created, false)
	return &out, nil
}

func (s *tweetService) DeletePost(ctx context.Context, id, requesterID string) (err error) {
	defer func() { s.metrics.ObserveMutation("delete_tweet", err) }()

	// 不存在与不属于自己返回同一个错误
	if err := s.tweets.DeleteOwned(ctx, id, requesterID); err != nil {
		return mapRepoErr("tweet.delete", err, MsgTweetNotOwned, "")
	}
	return nil
}

func (s *tweetService) GetByID(ctx context.Context, id, viewerID string) (*model.TweetResponse, error) {
	t, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("tweet.get", err, MsgTweetNotFound, "")
	}
	liked := false
	if viewerID != "" {
		liked, err = s.likes.Exists(ctx, viewerID, id)
		if err != nil {
			return nil, storageErr("tweet.get.liked", err)
		}
	}
	out := model.ToTweetResponse(t, liked)
	return &out, nil
}

// ListByOwner 未知用户返回空列表
func (s *tweetService) ListByOwner(ctx context.Context, username string) ([]*model.Tweet, error) {
	ts, err := s.tweets.ListByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storageErr("tweet.list_by_owner", err)
	}
	if ts == nil {
		ts = []*model.Tweet{}
	}
	return ts, nil
}
