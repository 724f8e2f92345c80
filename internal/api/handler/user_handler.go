package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

// GetUser 按用户名查资料
// @Summary 用户资料
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=model.UserResponse}
// @Failure 404 {object} response.Response
// @Router /api/users/{username} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, model.ToUserResponse(u))
}

// UpdateProfile 部分更新资料
// @Summary 更新资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "要修改的字段"
// @Success 200 {object} response.Response{data=model.UserResponse}
// @Failure 400 {object} response.Response
// @Router /api/users/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.ProfileInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "Profile updated successfully", model.ToUserResponse(u))
}

// UserTweets 某用户的推文（匿名视图）
// @Summary 用户推文
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=[]model.TweetResponse}
// @Router /api/users/{username}/tweets [get]
func (h *Handler) UserTweets(c *gin.Context) {
	list, err := h.timeline.GetUserPosts(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
