// @title PhysBank 后端 API
// @version 1.0
// @description 物理题库投题/审题/翻译/积分平台的后端服务器。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"physbank_backend/internal/app"
	"physbank_backend/internal/config"
	"physbank_backend/pkg/configwatcher"
	"physbank_backend/pkg/database"
	"physbank_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	watchConfig := flag.Bool("watch-config", false, "热加载配置文件")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		if err := database.Migrate(application.DB); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("数据库迁移完成，退出程序")
		return
	}

	if *watchConfig {
		go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)
	}

	application.Run()
}
