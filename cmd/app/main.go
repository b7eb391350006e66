package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scoreboard/config"
	"scoreboard/internal/command"
	"scoreboard/internal/log"
	"scoreboard/utils/path"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	_ "scoreboard/cmd/docs"
)

// 由 -ldflags "-X main.Version=..." 帶入
var Version string

var (
	envPath  string
	yamlPath string
	conf     *config.Configuration
)

func init() {
	pflag.StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	pflag.StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")
	// 子命令自己的 flag 交給 cobra 解析
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	pflag.Parse()

	cobra.OnInitialize(func() {
		loaded, err := loadConfig(path.RootPath(), envPath, yamlPath, Version)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		conf = loaded
	})
}

// @title        scoreboard API
// @version      1.0
// @description  成績查詢聚合與使用者管理後台 API
// @host         localhost:3000
// @basePath     /

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
// @description 請在欄位輸入 "Bearer {token}"
func main() {
	rootCmd := &cobra.Command{
		Use:   "app",
		Short: "成績查詢代理與使用者管理後台",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}

	command.Register(rootCmd, func() (*command.Command, func(), error) {
		cmdLogger, err := log.NewLogger(conf)
		if err != nil {
			return nil, nil, fmt.Errorf("init logger failed: %w", err)
		}
		return wireCommand(conf, cmdLogger)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serve 啟動 http 與 cron，收到 SIGINT/SIGTERM 後在 5 秒內優雅關閉
func serve() error {
	logger, err := log.NewLogger(conf)
	if err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	app, cleanup, err := wireApp(conf, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("start app ...")
	if err := app.Run(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown app ...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.Stop(ctx)
}
