package worker

import (
	"context"
	"errors"

	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 以 app.Service 形式运行 asynq 消费端
type Service struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	taskTypes []string
}

// NewService 队列未启用时返回错误，由调用方决定是否跳过
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	return &Service{
		server:    asynq.NewServer(opt, serverCfg),
		mux:       mux,
		taskTypes: consumer.Register(mux),
	}, nil
}

func (s *Service) Name() string { return "worker" }

// Start 启动处理协程后阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	logger.Infow("worker_starting", "task_types", s.taskTypes)
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务完成，asynq 自身的 ShutdownTimeout 生效
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}
