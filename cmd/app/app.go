package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"scoreboard/config"
	"scoreboard/internal/cron"
	"scoreboard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RuntimeInfo 為 /version 的回應
type RuntimeInfo struct {
	Env       string        `json:"env"`
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	GoVersion string        `json:"go_version"`
	Storage   string        `json:"storage"`
	StartAt   time.Time     `json:"start_at"`
	Uptime    time.Duration `json:"uptime"`
}

type App struct {
	conf          *config.Configuration
	logger        *zap.Logger
	cronSrv       *cron.Cron
	httpSrv       *http.Server
	Router        *gin.Engine
	healthService *service.HealthService

	info RuntimeInfo
}

func newHttpServer(conf *config.Configuration, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.FormatUint(uint64(conf.App.Port), 10),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newApp(
	conf *config.Configuration,
	logger *zap.Logger,
	router *gin.Engine,
	httpSrv *http.Server,
	healthService *service.HealthService,
	cronSrv *cron.Cron,
) *App {
	return &App{
		conf:          conf,
		logger:        logger,
		Router:        router,
		httpSrv:       httpSrv,
		healthService: healthService,
		cronSrv:       cronSrv,
		info: RuntimeInfo{
			Env:       conf.App.Env,
			Name:      conf.App.Name,
			Version:   conf.App.Version,
			GoVersion: runtime.Version(),
			Storage:   conf.Storage.Driver,
			StartAt:   time.Now(),
		},
	}
}

// Run 啟動 cron 與 http server；listen 成功前 readiness 維持 false
func (a *App) Run() error {
	a.logger.Info("app runtime info",
		zap.String("env", a.info.Env),
		zap.String("name", a.info.Name),
		zap.String("version", a.info.Version),
		zap.String("go_version", a.info.GoVersion),
		zap.String("storage", a.info.Storage),
	)
	a.Router.GET("/version", a.version)

	if err := a.cronSrv.Run(); err != nil {
		return err
	}
	a.logger.Info("cron server started")

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("http server stopped unexpectedly", zap.Error(err))
		}
	}()
	a.logger.Info("http server started", zap.String("addr", a.httpSrv.Addr))
	a.healthService.SetReady(true)
	return nil
}

func (a *App) version(c *gin.Context) {
	info := a.info
	info.Uptime = time.Since(info.StartAt)
	c.Header("X-App-Version", info.Version)
	c.JSON(http.StatusOK, info)
}

// Stop 先摘掉 readiness，再停 http 與 cron
func (a *App) Stop(ctx context.Context) error {
	a.healthService.SetReady(false)
	if err := a.httpSrv.Shutdown(ctx); err != nil {
		return err
	}
	a.logger.Info("http server has been stop")

	if err := a.cronSrv.Stop(ctx); err != nil {
		return err
	}
	a.logger.Info("cron server has been stop")
	return nil
}
