package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/fetcher"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "config path")
	noAnalyze := flag.Bool("no-analyze", false, "scrape and store articles without LLM analysis")
	reset := flag.Bool("reset", false, "delete all stored articles and exit")
	flag.Parse()

	// 1. 加载配置
	cfg, fromFile, err := config.Load(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	if !fromFile {
		logger.Log.Infof("未找到配置文件 %s，使用默认配置", *confPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 初始化数据库
	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()

	if *reset {
		n, err := store.DeleteAll(ctx)
		if err != nil {
			logger.Log.Fatalf("清空文章失败: %v", err)
		}
		logger.Log.Infof("已删除 %d 篇文章", n)
		return
	}

	// 4. 初始化引擎
	eng, err := engine.NewFromConfig(ctx, cfg, store)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	report, err := eng.Run(ctx, engine.RunOptions{SkipAnalysis: *noAnalyze})
	if err != nil {
		var fe *fetcher.FetchError
		if errors.As(err, &fe) {
			logger.Log.Errorf("列表页不可用: %v", fe)
		} else {
			logger.Log.Errorf("运行失败: %v", err)
		}
		stop()
		store.Close()
		os.Exit(1)
	}

	fmt.Println(report.Summary())
}
