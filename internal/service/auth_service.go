package service

import (
	"context"
	"time"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/pkg/apperr"
	"github.com/d60-Lab/chirp/pkg/auth"
)

// AuthService 注册/登录签发 token，注销吊销 jti
type AuthService struct {
	users   UserService
	jwt     *auth.JWTService
	revoker auth.TokenRevoker
	now     func() time.Time
}

func NewAuthService(users UserService, jwt *auth.JWTService, revoker auth.TokenRevoker) *AuthService {
	return &AuthService{users: users, jwt: jwt, revoker: revoker, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.AuthResponse, error) {
	u, err := s.users.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *model.User) (*model.AuthResponse, error) {
	token, _, err := s.jwt.Generate(u.ID, u.Username)
	if err != nil {
		return nil, apperr.Storage("auth.sign", err)
	}
	return &model.AuthResponse{Token: token, User: model.ToUserResponse(u)}, nil
}

// Verify 校验 token 并检查是否已注销
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, apperr.Auth("Invalid or expired token")
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, storageErr("auth.is_revoked", err)
		}
		if revoked {
			return nil, apperr.Auth("Token has been revoked")
		}
	}
	return claims, nil
}

// Logout 吊销当前 token 直到其自然过期
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil || claims == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return storageErr("auth.revoke", err)
	}
	return nil
}
