package database

import (
	"fmt"
	"log"
	"os"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是全局的gorm实例，承载归档数据(完成的专注记录、每日统计快照)。
var DB *gorm.DB

// InitDB 按配置的方言初始化归档数据库连接。
func InitDB(cfg config.ArchiveConfig) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent,
			Colorful:      true,
		},
	)

	var dialector gorm.Dialector
	switch cfg.Dialect {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.SqlitePath)
	default:
		panic(fmt.Sprintf("不支持的归档数据库方言: %s", cfg.Dialect))
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		panic("无法连接归档数据库: " + err.Error())
	}

	fmt.Println("归档数据库连接成功！")
}
