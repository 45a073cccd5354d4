// 手动触发积分全量重算脚本
//
// 该功能已集成到主应用的后台定时任务中（每小时自动执行一次）。
// 此脚本仅用于手动触发，例如批量导入台账或调整审题奖励分之后。
//
// 用法: go run scripts/recompute_scores.go

package main

import (
	"log"
	"physbank_backend/internal/config"
	"physbank_backend/internal/repository"
	"physbank_backend/internal/service"
	"physbank_backend/pkg/database"
	"physbank_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	events := repository.NewScoreEventRepository(db)
	users := repository.NewUserRepository(db)
	score := service.NewScoreService(events, users, db, nil)

	log.Println("手动触发积分重算任务...")
	updated, err := score.RecomputeAllScores()
	if err != nil {
		log.Fatalf("积分重算失败: %v", err)
	}
	log.Printf("完成！已更新 %d 个用户", updated)
}
