package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iWorld-y/tech_digest/app/tech_digest/internal/tui"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
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

	if err = logger.InitLogger(cfg.Log.Level, ""); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	// 日志只写文件，避免打乱终端界面
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "tech_digest.log"
	}
	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		log.Fatalf("无法打开日志文件: %v", err)
	}
	defer f.Close()
	logger.SetOutput(f)

	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()

	eng, err := engine.NewFromConfig(context.Background(), cfg, store)
	if err != nil {
		log.Fatalf("引擎初始化失败: %v", err)
	}

	p := tea.NewProgram(tui.NewModel(store, engine.NewRunner(eng)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
