package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/tryon-shop/internal/config"
)

// HTTPService 对外 API 监听
type HTTPService struct {
	server *http.Server
}

func secondsOr(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}

// NewHTTPService 按 server 配置构建监听，超时未配置时用 15s / 60s
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{server: &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       secondsOr(cfg.ReadTimeoutSeconds, 15),
		WriteTimeout:      secondsOr(cfg.WriteTimeoutSeconds, 60),
	}}
}

func (s *HTTPService) Name() string { return "http" }

// Start 阻塞直到监听关闭；ctx 取消后由 Stop 负责优雅退出
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
