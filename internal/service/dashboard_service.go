package service

import (
	"context"
	"math"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardRankingLimit  = 10
	dashboardListLimit     = 5
	dashboardRecentDays    = 7
	dashboardTrendMaxDays  = 90
	dashboardTrendDefault  = 7
	dashboardTrendDayIndex = "2006-01-02"
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页的商品、评价与订单数据，总览结果缓存 60 秒。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	GeneratedAt           time.Time               `json:"generated_at"`
	Products              DashboardProductStats   `json:"products"`
	Reviews               DashboardReviewStats    `json:"reviews"`
	Orders                DashboardOrderStats     `json:"orders"`
	TopCategories         []DashboardRankingItem  `json:"top_categories"`
	TopBrands             []DashboardRankingItem  `json:"top_brands"`
	RecentProducts        []DashboardProductBrief `json:"recent_products"`
	ProductsWithoutImages []DashboardProductBrief `json:"products_without_images"`
	LowStockProducts      []DashboardProductBrief `json:"low_stock_products"`
	OutOfStockProducts    []DashboardProductBrief `json:"out_of_stock_products"`
}

// DashboardProductStats 商品统计
type DashboardProductStats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	WithImages   int64 `json:"with_images"`
	TryOnEnabled int64 `json:"try_on_enabled"`
	LowStock     int64 `json:"low_stock"`
	OutOfStock   int64 `json:"out_of_stock"`
}

// DashboardReviewStats 评价统计
type DashboardReviewStats struct {
	Total     int64   `json:"total"`
	Pending   int64   `json:"pending"`
	AvgRating float64 `json:"avg_rating"`
}

// DashboardOrderStats 订单统计
type DashboardOrderStats struct {
	Total   int64  `json:"total"`
	Pending int64  `json:"pending"`
	Revenue string `json:"revenue"`
}

// DashboardRankingItem 分类/品牌排行项
type DashboardRankingItem struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	ProductCount   int64  `json:"product_count"`
	ActiveProducts int64  `json:"active_products"`
}

// DashboardProductBrief 商品摘要
type DashboardProductBrief struct {
	ID            uint         `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Price         models.Money `json:"price"`
	StockQuantity int          `json:"stock_quantity"`
	Category      string       `json:"category"`
	Brand         string       `json:"brand"`
	CreatedAt     time.Time    `json:"created_at"`
}

// DashboardTrendPoint 订单趋势点
type DashboardTrendPoint struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue string `json:"revenue"`
}

// DashboardTrendResponse 订单趋势
type DashboardTrendResponse struct {
	Days   int                   `json:"days"`
	From   string                `json:"from"`
	To     string                `json:"to"`
	Points []DashboardTrendPoint `json:"points"`
}

// Overview 获取仪表盘总览，forceRefresh 跳过缓存
func (s *DashboardService) Overview(ctx context.Context, forceRefresh bool) (*DashboardOverview, error) {
	if !forceRefresh {
		var cached DashboardOverview
		hit, err := cache.GetDashboardOverview(ctx, &cached)
		if err != nil {
			logger.Debugw("dashboard_cache_read_failed", "error", err)
		}
		if err == nil && hit {
			return &cached, nil
		}
	}

	productStats, err := s.repo.GetProductStats(constants.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	reviewStats, err := s.repo.GetReviewStats()
	if err != nil {
		return nil, err
	}
	orderStats, err := s.repo.GetOrderStats()
	if err != nil {
		return nil, err
	}
	topCategories, err := s.repo.GetTopCategories(dashboardRankingLimit)
	if err != nil {
		return nil, err
	}
	topBrands, err := s.repo.GetTopBrands(dashboardRankingLimit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recent, err := s.repo.ListRecentProducts(now.AddDate(0, 0, -dashboardRecentDays), dashboardListLimit)
	if err != nil {
		return nil, err
	}
	withoutImages, err := s.repo.ListProductsWithoutImages(dashboardListLimit)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.ListLowStockProducts(constants.LowStockThreshold, dashboardListLimit)
	if err != nil {
		return nil, err
	}
	outOfStock, err := s.repo.ListOutOfStockProducts(dashboardListLimit)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		GeneratedAt: now,
		Products: DashboardProductStats{
			Total:        productStats.TotalProducts,
			Active:       productStats.ActiveProducts,
			WithImages:   productStats.WithImages,
			TryOnEnabled: productStats.TryOnEnabled,
			LowStock:     productStats.LowStock,
			OutOfStock:   productStats.OutOfStock,
		},
		Reviews: DashboardReviewStats{
			Total:     reviewStats.TotalReviews,
			Pending:   reviewStats.PendingReviews,
			AvgRating: math.Round(reviewStats.AvgRating*10) / 10,
		},
		Orders: DashboardOrderStats{
			Total:   orderStats.TotalOrders,
			Pending: orderStats.PendingOrders,
			Revenue: formatRevenue(orderStats.Revenue),
		},
		TopCategories:         toRankingItems(topCategories),
		TopBrands:             toRankingItems(topBrands),
		RecentProducts:        toProductBriefs(recent),
		ProductsWithoutImages: toProductBriefs(withoutImages),
		LowStockProducts:      toProductBriefs(lowStock),
		OutOfStockProducts:    toProductBriefs(outOfStock),
	}

	if err := cache.SetDashboardOverview(ctx, overview); err != nil {
		logger.Debugw("dashboard_cache_write_failed", "error", err)
	}
	return overview, nil
}

// Trends 最近 days 天的订单趋势，缺失的日期补零
func (s *DashboardService) Trends(days int) (*DashboardTrendResponse, error) {
	if days <= 0 {
		days = dashboardTrendDefault
	}
	if days > dashboardTrendMaxDays {
		days = dashboardTrendMaxDays
	}
	now := time.Now()
	endAt := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	startAt := endAt.AddDate(0, 0, -days)

	rows, err := s.repo.GetOrderTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]repository.DashboardOrderTrendRow, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	points := make([]DashboardTrendPoint, 0, days)
	for cursor := startAt; cursor.Before(endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format(dashboardTrendDayIndex)
		row := byDay[day]
		points = append(points, DashboardTrendPoint{
			Date:    day,
			Orders:  row.Orders,
			Revenue: formatRevenue(row.Revenue),
		})
	}
	return &DashboardTrendResponse{
		Days:   days,
		From:   startAt.Format(dashboardTrendDayIndex),
		To:     endAt.AddDate(0, 0, -1).Format(dashboardTrendDayIndex),
		Points: points,
	}, nil
}

func formatRevenue(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func toRankingItems(rows []repository.DashboardRankingRow) []DashboardRankingItem {
	items := make([]DashboardRankingItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, DashboardRankingItem{
			ID:             row.ID,
			Name:           row.Name,
			Slug:           row.Slug,
			ProductCount:   row.ProductCount,
			ActiveProducts: row.ActiveProducts,
		})
	}
	return items
}

func toProductBriefs(products []models.Product) []DashboardProductBrief {
	items := make([]DashboardProductBrief, 0, len(products))
	for _, product := range products {
		brief := DashboardProductBrief{
			ID:            product.ID,
			Name:          product.Name,
			Slug:          product.Slug,
			Price:         product.Price,
			StockQuantity: product.StockQuantity,
			CreatedAt:     product.CreatedAt,
		}
		if product.Category != nil {
			brief.Category = product.Category.Name
		}
		if product.Brand != nil {
			brief.Brand = product.Brand.Name
		}
		items = append(items, brief)
	}
	return items
}
