package service

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tryon-shop/internal/logger"

	"github.com/tealeg/xlsx"
)

const importMaxRows = 5000

// ProductImportRowError 导入失败的行
type ProductImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ProductImportResult 导入结果
type ProductImportResult struct {
	Created int                     `json:"created"`
	Updated int                     `json:"updated"`
	Skipped int                     `json:"skipped"`
	Errors  []ProductImportRowError `json:"errors"`
}

// ImportProducts 从导出格式的 xlsx 批量创建或更新商品
// ID 列存在且命中已有商品时更新，否则按 slug 创建；单行失败只记录不中断。
func (s *AdminProductService) ImportProducts(ctx context.Context, fileHeader *multipart.FileHeader) (*ProductImportResult, error) {
	if fileHeader == nil {
		return nil, NewValidationError("file", "error.field_required")
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		return nil, ErrFileTypeNotAllow
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	book, err := xlsx.OpenReaderAt(file, fileHeader.Size)
	if err != nil {
		return nil, NewValidationError("file", "error.import_file_invalid")
	}
	if len(book.Sheets) == 0 || len(book.Sheets[0].Rows) < 2 {
		return nil, NewValidationError("file", "error.import_file_empty")
	}

	sheet := book.Sheets[0]
	columns := headerIndex(sheet.Rows[0])
	for _, required := range []string{"name", "category", "brand", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, NewValidationError("file", "error.import_header_missing")
		}
	}

	result := &ProductImportResult{Errors: []ProductImportRowError{}}
	for i := 1; i < len(sheet.Rows) && i <= importMaxRows; i++ {
		row := sheet.Rows[i]
		get := func(name string) string {
			idx, ok := columns[name]
			if !ok || row == nil || idx >= len(row.Cells) {
				return ""
			}
			return strings.TrimSpace(row.Cells[idx].String())
		}
		if get("name") == "" && get("slug") == "" {
			result.Skipped++
			continue
		}

		updated, err := s.importProductRow(ctx, get)
		if err != nil {
			result.Errors = append(result.Errors, ProductImportRowError{Row: i + 1, Error: err.Error()})
			continue
		}
		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}
	logger.Infow("product_import_finished",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", len(result.Errors),
	)
	return result, nil
}

func (s *AdminProductService) importProductRow(ctx context.Context, get func(string) string) (bool, error) {
	category, err := s.categoryRepo.GetBySlug(Slugify(get("category")))
	if err != nil {
		return false, err
	}
	if category == nil {
		return false, ErrCategoryNotFound
	}
	brand, err := s.brandRepo.GetBySlug(Slugify(get("brand")))
	if err != nil {
		return false, err
	}
	if brand == nil {
		return false, ErrBrandNotFound
	}
	stock := 0
	if raw := get("stock"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return false, NewValidationError("stock_quantity", "error.field_invalid")
		}
		stock = int(parsed)
	}

	input := ProductInput{
		Name:             get("name"),
		Slug:             get("slug"),
		Description:      get("description"),
		ShortDescription: get("short description"),
		CategoryID:       category.ID,
		BrandID:          brand.ID,
		Price:            get("price"),
		SalePrice:        get("sale price"),
		Gender:           get("gender"),
		AvailableSizes:   get("sizes"),
		AvailableColors:  get("colors"),
		StockQuantity:    stock,
		IsAvailable:      parseSheetBool(get("available")),
		IsTryOnEnabled:   parseSheetBool(get("try-on enabled")),
		TryOnCategory:    get("try-on category"),
		IsFeatured:       parseSheetBool(get("featured")),
		IsActive:         parseSheetBool(get("active")),
	}

	if rawID := get("id"); rawID != "" {
		if id, err := strconv.ParseUint(rawID, 10, 64); err == nil && id > 0 {
			existing, err := s.productRepo.GetByID(uint(id))
			if err != nil {
				return false, err
			}
			if existing != nil {
				if _, err := s.Update(ctx, existing.ID, input); err != nil {
					return false, err
				}
				return true, nil
			}
		}
	}
	if _, err := s.Create(ctx, input); err != nil {
		return false, err
	}
	return false, nil
}

func headerIndex(row *xlsx.Row) map[string]int {
	columns := make(map[string]int)
	if row == nil {
		return columns
	}
	for idx, cell := range row.Cells {
		name := strings.ToLower(strings.TrimSpace(cell.String()))
		if name == "" {
			continue
		}
		if _, exists := columns[name]; !exists {
			columns[name] = idx
		}
	}
	return columns
}
