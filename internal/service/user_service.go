package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/apperr"
	"github.com/d60-Lab/chirp/pkg/auth"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// ProfileInput 资料部分更新；nil 字段不变
type ProfileInput struct {
	DisplayName  *string `json:"display_name" validate:"omitempty,min=1,max=100"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
	BannerImage  *string `json:"banner_image"`
}

// UserService 身份目录
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileInput) (*model.User, error)
}

type userService struct {
	users   repository.UserRepository
	metrics *metrics.Metrics
}

func NewUserService(users repository.UserRepository, m *metrics.Metrics) UserService {
	return &userService{users: users, metrics: m}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (u *model.User, err error) {
	defer func() { s.metrics.ObserveMutation("register", err) }()

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	// 标签按字符计数，bcrypt 按字节截断
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperr.Validation(fmt.Sprintf("Validation error: password must be at most %d bytes", auth.MaxPasswordBytes))
	}
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, storageErr("register.exists", err)
	}
	if exists {
		return nil, apperr.Conflict(MsgUserExists)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Storage("register.hash", err)
	}
	u = &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
	}
	// 并发注册同名时由唯一约束兜底
	if err := s.users.Create(ctx, u); err != nil {
		return nil, mapRepoErr("register.create", err, "", MsgUserExists)
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Auth(MsgBadCredentials)
	}
	if err != nil {
		return nil, storageErr("authenticate", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Auth(MsgBadCredentials)
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("user.get", err, MsgUserNotFound, "")
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapRepoErr("user.get_by_username", err, MsgUserNotFound, "")
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (u *model.User, err error) {
	defer func() { s.metrics.ObserveMutation("update_profile", err) }()

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.DisplayName != nil && *in.DisplayName == "" {
		return nil, apperr.Validation("Validation error: display_name must be at least 1 characters")
	}
	patch := model.ProfilePatch{
		DisplayName:  in.DisplayName,
		Bio:          in.Bio,
		ProfileImage: in.ProfileImage,
		BannerImage:  in.BannerImage,
	}
	u, err = s.users.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, mapRepoErr("user.update_profile", err, MsgUserNotFound, "")
	}
	return u, nil
}
