package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/auth"
	"github.com/d60-Lab/chirp/pkg/database"
	"github.com/d60-Lab/chirp/pkg/logger"
)

type app struct {
	cfg   *config.Config
	db    *gorm.DB
	repos repository.Repositories
	redis *redis.Client
}

// bootstrap 加载配置、初始化日志并打开数据库；migrate 为 true 时同步表结构
func bootstrap(migrate bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log)

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}
	return &app{cfg: cfg, db: db, repos: repository.NewGormRepositories(db)}, nil
}

// revoker redis 启用时吊销记录落 redis，否则只在进程内生效
func (a *app) revoker(ctx context.Context) (auth.TokenRevoker, error) {
	if !a.cfg.Redis.Enabled {
		logger.Warn("redis disabled, token revocation is process-local")
		return auth.NewMemoryRevoker(), nil
	}
	a.redis = redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", a.cfg.Redis.Addr, err)
	}
	logger.Info("redis connected", zap.String("addr", a.cfg.Redis.Addr))
	return auth.NewRedisRevoker(a.redis), nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := database.Close(a.db); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	_ = logger.Sync()
}
