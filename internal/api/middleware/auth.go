package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/pkg/apperr"
	"github.com/d60-Lab/chirp/pkg/auth"
	"github.com/d60-Lab/chirp/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "jwt_claims"
	bearerPrefix  = "Bearer "
)

// TokenVerifier 校验 token 并返回载荷
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// Auth 要求 Authorization: Bearer <token>
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			response.Error(c, apperr.Auth("Missing or invalid authorization header"))
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			response.Error(c, apperr.Auth("Missing or invalid authorization header"))
			return
		}
		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UserID 当前请求的已认证用户
func UserID(c *gin.Context) string { return c.GetString(ContextUserID) }

func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
