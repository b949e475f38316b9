package app

import (
	"context"
	"errors"

	"github.com/tryon-shop/internal/realtime"
)

// HubService 订单实时推送中心的生命周期封装
type HubService struct {
	hub *realtime.Hub
}

// NewHubService 创建推送服务
func NewHubService(hub *realtime.Hub) *HubService {
	return &HubService{hub: hub}
}

// Name 服务名称
func (s *HubService) Name() string {
	return "realtime"
}

// Start 运行事件循环直到 ctx 取消
func (s *HubService) Start(ctx context.Context) error {
	if s == nil || s.hub == nil {
		return errors.New("realtime hub not initialized")
	}
	s.hub.Run(ctx)
	return nil
}

// Stop 事件循环随 ctx 退出，无需额外处理
func (s *HubService) Stop(context.Context) error {
	return nil
}
