// Package handler HTTP 接口
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

type Handler struct {
	users      service.UserService
	auth       *service.AuthService
	tweets     service.TweetService
	relService service.RelationshipService
	engagement service.EngagementService
	timeline   service.TimelineService
}

func New(svc *service.Services) *Handler {
	return &Handler{
		users:      svc.Users,
		auth:       svc.Auth,
		tweets:     svc.Tweets,
		relService: svc.Relations,
		engagement: svc.Engagement,
		timeline:   svc.Timeline,
	}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	response.SuccessMessage(c, "OK", gin.H{"status": "ok"})
}

// bindJSON 解析失败时写 400 并返回 false
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "Validation error: "+err.Error())
		return false
	}
	return true
}
