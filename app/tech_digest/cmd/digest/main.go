package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/digest"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "config path")
	flag.Parse()

	cfg, _, err := config.Load(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}

	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()

	records, err := store.Query(context.Background(), storage.Today, storage.RelevanceDesc, storage.AnalyzedOnly())
	if err != nil {
		logger.Log.Fatalf("查询今日文章失败: %v", err)
	}

	if err := digest.Render(os.Stdout, time.Now(), records); err != nil {
		logger.Log.Fatalf("输出摘要失败: %v", err)
	}
}
