package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"github.com/tealeg/xlsx"
)

const (
	exportBatchSize  = 200
	exportMaxRows    = 50000
	exportTimeLayout = "2006-01-02 15:04:05"

	// XLSXContentType xlsx 下载的 Content-Type
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// productSheetHeaders 商品表头，导入按表头名称取列
var productSheetHeaders = []string{
	"ID", "Name", "Slug", "Category", "Brand", "Gender", "Price", "Sale Price",
	"Sizes", "Colors", "Stock", "Try-On Category", "Try-On Enabled", "Available",
	"Featured", "Active", "Short Description", "Description", "Images", "Created At",
}

var orderSheetHeaders = []string{
	"Order Number", "Customer", "Email", "Phone", "Status", "Payment Status", "Items",
	"Subtotal", "Tax", "Shipping", "Discount", "Total", "Shipping City", "Shipping State",
	"Shipping Postal Code", "Created At", "Shipped At", "Delivered At",
}

// ExportService 后台 xlsx 导出
type ExportService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewExportService 创建导出服务
func NewExportService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *ExportService {
	return &ExportService{productRepo: productRepo, orderRepo: orderRepo}
}

// ExportProducts 按后台列表的过滤条件导出商品
func (s *ExportService) ExportProducts(w io.Writer, query AdminProductQuery) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	addHeaderRow(sheet, productSheetHeaders)

	status := strings.ToLower(strings.TrimSpace(query.Status))
	written := 0
	for page := 1; written < exportMaxRows; page++ {
		products, _, err := s.productRepo.List(repository.ProductListFilter{
			Page:         page,
			PageSize:     exportBatchSize,
			CategoryID:   query.CategoryID,
			BrandID:      query.BrandID,
			AdminStatus:  status,
			Search:       strings.TrimSpace(query.Search),
			Sort:         constants.ProductSortNewest,
			WithRelation: true,
		})
		if err != nil {
			return err
		}
		for i := range products {
			writeProductRow(sheet.AddRow(), &products[i])
		}
		written += len(products)
		if len(products) < exportBatchSize {
			break
		}
	}
	return file.Write(w)
}

// ExportOrders 按后台订单过滤条件导出订单
func (s *ExportService) ExportOrders(w io.Writer, filter repository.OrderListFilter) error {
	if filter.Status != "" && !IsValidOrderStatus(filter.Status) {
		return ErrInvalidOrderStatus
	}
	if filter.PaymentStatus != "" && !IsValidPaymentStatus(filter.PaymentStatus) {
		return ErrInvalidPaymentStatus
	}
	filter.Status = normalizeOrderStatus(filter.Status)
	filter.PaymentStatus = normalizeOrderStatus(filter.PaymentStatus)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}
	addHeaderRow(sheet, orderSheetHeaders)

	written := 0
	filter.PageSize = exportBatchSize
	for filter.Page = 1; written < exportMaxRows; filter.Page++ {
		orders, _, err := s.orderRepo.ListAdmin(filter)
		if err != nil {
			return err
		}
		for i := range orders {
			writeOrderRow(sheet.AddRow(), &orders[i])
		}
		written += len(orders)
		if len(orders) < exportBatchSize {
			break
		}
	}
	return file.Write(w)
}

func addHeaderRow(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, header := range headers {
		row.AddCell().SetValue(header)
	}
}

func writeProductRow(row *xlsx.Row, product *models.Product) {
	categorySlug, brandSlug := "", ""
	if product.Category != nil {
		categorySlug = product.Category.Slug
	}
	if product.Brand != nil {
		brandSlug = product.Brand.Slug
	}
	salePrice := ""
	if product.SalePrice != nil {
		salePrice = product.SalePrice.StringFixed(2)
	}
	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.URL)
	}

	row.AddCell().SetValue(product.ID)
	row.AddCell().SetValue(product.Name)
	row.AddCell().SetValue(product.Slug)
	row.AddCell().SetValue(categorySlug)
	row.AddCell().SetValue(brandSlug)
	row.AddCell().SetValue(product.Gender)
	row.AddCell().SetValue(product.Price.StringFixed(2))
	row.AddCell().SetValue(salePrice)
	row.AddCell().SetValue(product.AvailableSizes)
	row.AddCell().SetValue(product.AvailableColors)
	row.AddCell().SetValue(product.StockQuantity)
	row.AddCell().SetValue(product.TryOnCategory)
	row.AddCell().SetValue(formatBool(product.IsTryOnEnabled))
	row.AddCell().SetValue(formatBool(product.IsAvailable))
	row.AddCell().SetValue(formatBool(product.IsFeatured))
	row.AddCell().SetValue(formatBool(product.IsActive))
	row.AddCell().SetValue(product.ShortDescription)
	row.AddCell().SetValue(product.Description)
	row.AddCell().SetValue(strings.Join(images, "\n"))
	row.AddCell().SetValue(product.CreatedAt.Format(exportTimeLayout))
}

func writeOrderRow(row *xlsx.Row, order *models.Order) {
	customer := ""
	if order.User != nil {
		customer = strings.TrimSpace(fmt.Sprintf("%s (%s)", order.User.FullName(), order.User.Username))
	}

	row.AddCell().SetValue(order.OrderNumber)
	row.AddCell().SetValue(customer)
	row.AddCell().SetValue(order.Email)
	row.AddCell().SetValue(order.PhoneNumber)
	row.AddCell().SetValue(order.Status)
	row.AddCell().SetValue(order.PaymentStatus)
	row.AddCell().SetValue(order.TotalItems())
	row.AddCell().SetValue(order.Subtotal.StringFixed(2))
	row.AddCell().SetValue(order.TaxAmount.StringFixed(2))
	row.AddCell().SetValue(order.ShippingAmount.StringFixed(2))
	row.AddCell().SetValue(order.DiscountAmount.StringFixed(2))
	row.AddCell().SetValue(order.TotalAmount.StringFixed(2))
	row.AddCell().SetValue(order.ShippingCity)
	row.AddCell().SetValue(order.ShippingState)
	row.AddCell().SetValue(order.ShippingPostal)
	row.AddCell().SetValue(order.CreatedAt.Format(exportTimeLayout))
	row.AddCell().SetValue(formatOptionalTime(order.ShippedAt))
	row.AddCell().SetValue(formatOptionalTime(order.DeliveredAt))
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func parseSheetBool(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		value := true
		return &value
	case "no", "n", "false", "0":
		value := false
		return &value
	default:
		return nil
	}
}

func formatOptionalTime(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.Format(exportTimeLayout)
}
