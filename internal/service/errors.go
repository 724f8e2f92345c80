package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/apperr"
	"github.com/d60-Lab/chirp/pkg/logger"
)

// 对外的固定消息
const (
	MsgAlreadyFollowing = "Already following this user"
	MsgNotFollowing     = "Not following this user"
	MsgAlreadyLiked     = "Already liked this tweet"
	MsgLikeNotFound     = "Like not found"
	MsgTweetNotFound    = "Tweet not found"
	MsgTweetNotOwned    = "Tweet not found or unauthorized"
	MsgUserNotFound     = "User not found"
	MsgUserExists       = "User with this email or username already exists"
	MsgBadCredentials   = "Invalid credentials"
	MsgFollowSelf       = "Cannot follow yourself"
)

// mapRepoErr 把仓储哨兵错误翻译为业务错误；其余一律视为存储错误
func mapRepoErr(op string, err error, notFound, duplicate string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound) && notFound != "":
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrDuplicate) && duplicate != "":
		return apperr.Conflict(duplicate)
	default:
		return storageErr(op, err)
	}
}

func storageErr(op string, err error) error {
	logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return apperr.Storage(op, err)
}
