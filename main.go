// LexStudy 后端：法律课程内容渲染与学习进度服务

package main

import (
	"context"
	"flag"
	"log"

	"lexstudy_backend/internal/app"
	"lexstudy_backend/internal/config"
	"lexstudy_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seedFile := flag.String("seed", "", "导入 YAML 课程数据文件，例如 configs/seed.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly || *seedFile != ""
	cfg.MigrateOnly = *migrateOnly
	cfg.SeedFile = *seedFile

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.SeedFile != "" {
		if _, err := application.Seed(context.Background(), cfg.SeedFile); err != nil {
			logger.Log.Fatal("Failed to import seed data", zap.Error(err))
		}
	}

	// 迁移完成后直接退出
	if cfg.MigrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		application.Close(context.Background())
		return
	}

	application.Run()
}
