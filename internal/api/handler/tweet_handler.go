package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

// CreateTweet 发推
// @Summary 发推
// @Tags 推文
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateTweetInput true "推文内容"
// @Success 201 {object} response.Response{data=model.TweetResponse}
// @Failure 400 {object} response.Response
// @Router /api/tweets [post]
func (h *Handler) CreateTweet(c *gin.Context) {
	var req service.CreateTweetInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.tweets.CreatePost(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Tweet created successfully", t)
}

// GetTweet 单条推文
// @Summary 推文详情
// @Tags 推文
// @Produce json
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Success 200 {object} response.Response{data=model.TweetResponse}
// @Failure 404 {object} response.Response
// @Router /api/tweets/{id} [get]
func (h *Handler) GetTweet(c *gin.Context) {
	t, err := h.tweets.GetByID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, t)
}

// DeleteTweet 删除自己的推文
// @Summary 删除推文
// @Tags 推文
// @Produce json
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/tweets/{id} [delete]
func (h *Handler) DeleteTweet(c *gin.Context) {
	if err := h.tweets.DeletePost(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Tweet deleted successfully")
}

// Timeline 关注的人 + 自己的最新推文
// @Summary 时间线
// @Tags 推文
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.TweetResponse}
// @Router /api/tweets/timeline [get]
func (h *Handler) Timeline(c *gin.Context) {
	list, err := h.timeline.GetTimeline(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// Like 点赞
// @Summary 点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/tweets/{id}/like [post]
func (h *Handler) Like(c *gin.Context) {
	if err := h.engagement.Like(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Tweet liked successfully")
}

// Unlike 取消点赞
// @Summary 取消点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/tweets/{id}/unlike [delete]
func (h *Handler) Unlike(c *gin.Context) {
	if err := h.engagement.Unlike(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Tweet unliked successfully")
}
