package database

import (
	"context"
	"fmt"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是全局的Redis客户端，承载实时状态树：
// 角色状态哈希、单槽收件箱、每日计数器，以及状态变更的发布订阅。
var RDB *redis.Client

// Ctx 是Redis操作使用的全局上下文。
var Ctx = context.Background()

// InitRedis 初始化与实时存储的连接。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		panic("无法连接到Redis: " + err.Error())
	}

	fmt.Println("Redis 连接成功！")
}
