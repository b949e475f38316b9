package cache

import (
	"context"
	"time"
)

const (
	dashboardOverviewKey = "dashboard:overview"
	dashboardOverviewTTL = 60 * time.Second
)

// GetDashboardOverview 读取仪表盘总览缓存
func GetDashboardOverview(ctx context.Context, dest interface{}) (bool, error) {
	return GetJSON(ctx, dashboardOverviewKey, dest)
}

// SetDashboardOverview 写入仪表盘总览缓存
func SetDashboardOverview(ctx context.Context, value interface{}) error {
	return SetJSON(ctx, dashboardOverviewKey, value, dashboardOverviewTTL)
}

// InvalidateDashboardOverview 商品或订单变更后清除总览缓存
func InvalidateDashboardOverview(ctx context.Context) error {
	return Del(ctx, dashboardOverviewKey)
}
