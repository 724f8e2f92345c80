package service

import (
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/auth"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// Services 按仓储组装的全部服务
type Services struct {
	Users      UserService
	Auth       *AuthService
	Tweets     TweetService
	Relations  RelationshipService
	Engagement EngagementService
	Timeline   TimelineService
	Reconciler *CounterReconciler
}

func New(repos repository.Repositories, jwt *auth.JWTService, revoker auth.TokenRevoker, m *metrics.Metrics) *Services {
	users := NewUserService(repos.Users, m)
	tweets := NewTweetService(repos.Tweets, repos.Likes, m)
	return &Services{
		Users:      users,
		Auth:       NewAuthService(users, jwt, revoker),
		Tweets:     tweets,
		Relations:  NewRelationshipService(repos.Users, repos.Follows, m),
		Engagement: NewEngagementService(repos.Tweets, repos.Likes, m),
		Timeline:   NewTimelineService(repos.Tweets, repos.Likes, tweets, m),
		Reconciler: NewCounterReconciler(repos.Counters, m),
	}
}
