package cron

import (
	"context"

	"scoreboard/config"
	"scoreboard/internal/service"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type Cron struct {
	logger        *zap.Logger
	config        *config.Configuration
	server        *cron.Cron
	backupService *service.BackupService
}

// NewCron .
func NewCron(logger *zap.Logger, config *config.Configuration, backupService *service.BackupService) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	return &Cron{
		logger:        logger,
		config:        config,
		server:        server,
		backupService: backupService,
	}
}

func (c *Cron) Run() error {
	if spec := c.config.Backup.Spec; spec != "" {
		if _, err := c.server.AddFunc(spec, c.backup); err != nil {
			return err
		}
		c.logger.Info("registry backup scheduled", zap.String("spec", spec))
	}

	c.server.Start()
	return nil
}

func (c *Cron) Stop(ctx context.Context) error {
	stopped := c.server.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (c *Cron) backup() {
	result, err := c.backupService.Run(context.Background())
	if err != nil {
		c.logger.Error("registry backup failed", zap.Error(err))
		return
	}
	c.logger.Info("registry backup done",
		zap.String("file", result.FileName),
		zap.Int("bytes", result.Bytes),
		zap.String("objectKey", result.ObjectKey),
	)
}
