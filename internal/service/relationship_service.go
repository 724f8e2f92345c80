package service

import (
	"context"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/apperr"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// MaxPageSize 关注/粉丝列表每页上限
const MaxPageSize = 100

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, followerID, targetUsername string) error
	Unfollow(ctx context.Context, followerID, targetUsername string) error
	ListFollowing(ctx context.Context, username string, page, pageSize int) ([]model.UserResponse, error)
	ListFollowers(ctx context.Context, username string, page, pageSize int) ([]model.UserResponse, error)
}

type relationshipService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	metrics *metrics.Metrics
}

func NewRelationshipService(users repository.UserRepository, follows repository.FollowRepository, m *metrics.Metrics) RelationshipService {
	return &relationshipService{users: users, follows: follows, metrics: m}
}

func (s *relationshipService) resolve(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapRepoErr("relation.resolve", err, MsgUserNotFound, "")
	}
	return u, nil
}

func (s *relationshipService) Follow(ctx context.Context, followerID, targetUsername string) (err error) {
	defer func() { s.metrics.ObserveMutation("follow", err) }()

	target, err := s.resolve(ctx, targetUsername)
	if err != nil {
		return err
	}
	if followerID == target.ID {
		return apperr.Validation(MsgFollowSelf)
	}
	// 边与两侧计数同一事务；重复关注由唯一约束拒绝
	if err := s.follows.Create(ctx, followerID, target.ID); err != nil {
		return mapRepoErr("relation.follow", err, MsgUserNotFound, MsgAlreadyFollowing)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, targetUsername string) (err error) {
	defer func() { s.metrics.ObserveMutation("unfollow", err) }()

	target, err := s.resolve(ctx, targetUsername)
	if err != nil {
		return err
	}
	if err := s.follows.Delete(ctx, followerID, target.ID); err != nil {
		return mapRepoErr("relation.unfollow", err, MsgNotFollowing, "")
	}
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, username string, page, pageSize int) ([]model.UserResponse, error) {
	u, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	offset, limit := pageWindow(page, pageSize)
	items, err := s.follows.ListFollowings(ctx, u.ID, offset, limit)
	if err != nil {
		return nil, storageErr("relation.list_following", err)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.FollowingID
	}
	return s.profiles(ctx, ids)
}

func (s *relationshipService) ListFollowers(ctx context.Context, username string, page, pageSize int) ([]model.UserResponse, error) {
	u, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	offset, limit := pageWindow(page, pageSize)
	items, err := s.follows.ListFollowers(ctx, u.ID, offset, limit)
	if err != nil {
		return nil, storageErr("relation.list_followers", err)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.FollowerID
	}
	return s.profiles(ctx, ids)
}

// profiles 批量取资料，保持 ids 的顺序
func (s *relationshipService) profiles(ctx context.Context, ids []string) ([]model.UserResponse, error) {
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr("relation.profiles", err)
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	res := make([]model.UserResponse, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			res = append(res, model.ToUserResponse(u))
		}
	}
	return res, nil
}

func pageWindow(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return (page - 1) * pageSize, pageSize
}
