package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"
	"github.com/tryon-shop/internal/storage"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

func newTestAdminProductService(t *testing.T, db *gorm.DB) *AdminProductService {
	t.Helper()
	cfg := testConfig()
	store := storage.NewLocalStorage(t.TempDir(), "/uploads")
	return NewAdminProductService(
		cfg.Upload,
		repository.NewProductRepository(db),
		repository.NewProductImageRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewBrandRepository(db),
		NewUploadService(cfg.Upload, store),
		nil,
	)
}

// buildFileHeader 通过真实的 multipart 解析得到 FileHeader
func buildFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part failed: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func validProductInput(categoryID, brandID uint, name string) ProductInput {
	return ProductInput{
		Name:            name,
		CategoryID:      categoryID,
		BrandID:         brandID,
		Price:           "1299",
		SalePrice:       "999",
		Gender:          "m",
		AvailableSizes:  " S, M ,,L ",
		AvailableColors: "Navy",
		StockQuantity:   12,
		TryOnCategory:   "Tops",
	}
}

func TestAdminProductCreateAndUpdate(t *testing.T) {
	db := setupServiceTestDB(t)
	category, brand := createTestCatalog(t, db)
	svc := newTestAdminProductService(t, db)
	ctx := context.Background()

	view, err := svc.Create(ctx, validProductInput(category.ID, brand.ID, "Linen Shirt"))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if view.Slug != "linen-shirt" || view.Gender != constants.GenderMen || view.AvailableSizes != "S,M,L" {
		t.Fatalf("normalized fields unexpected: slug=%s gender=%s sizes=%s", view.Slug, view.Gender, view.AvailableSizes)
	}
	if !view.IsActive || !view.IsAvailable || view.TryOnCategory != constants.TryOnCategoryTops {
		t.Fatalf("defaults unexpected: %+v", view.Product)
	}
	if view.CurrentPrice.StringFixed(2) != "999.00" || view.DiscountPercentage != 23 {
		t.Fatalf("derived price unexpected: %s %d", view.CurrentPrice.StringFixed(2), view.DiscountPercentage)
	}

	if _, err := svc.Create(ctx, validProductInput(category.ID, brand.ID, "Linen Shirt")); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("duplicate slug want %v got %v", ErrSlugExists, err)
	}
	if _, err := svc.Create(ctx, validProductInput(category.ID, 9999, "Other")); !errors.Is(err, ErrBrandNotFound) {
		t.Fatalf("missing brand want %v got %v", ErrBrandNotFound, err)
	}

	invalid := validProductInput(category.ID, brand.ID, "")
	invalid.Price = "-1"
	invalid.Gender = "Z"
	invalid.TryOnCategory = "hats"
	_, err = svc.Create(ctx, invalid)
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("want validation error got %v", err)
	}
	for _, field := range []string{"name", "price", "gender", "try_on_category"} {
		if verr.Fields[field] == "" {
			t.Fatalf("field %s want error got %v", field, verr.Fields)
		}
	}

	update := validProductInput(category.ID, brand.ID, "Linen Shirt")
	update.SalePrice = ""
	inactive := false
	update.IsActive = &inactive
	updated, err := svc.Update(ctx, view.ID, update)
	if err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if updated.IsActive || updated.SalePrice != nil || updated.Slug != "linen-shirt" {
		t.Fatalf("update unexpected: active=%v sale=%v slug=%s", updated.IsActive, updated.SalePrice, updated.Slug)
	}

	if err := svc.Delete(ctx, view.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if _, err := svc.Get(view.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("deleted product want %v got %v", ErrProductNotFound, err)
	}
}

func TestAdminProductListStatusFilter(t *testing.T) {
	db := setupServiceTestDB(t)
	category, brand := createTestCatalog(t, db)
	svc := newTestAdminProductService(t, db)

	withImage := createTestProduct(t, db, category.ID, brand.ID, "with-image", "100")
	if err := db.Create(&models.ProductImage{ProductID: withImage.ID, URL: "/uploads/a.png", IsPrimary: true}).Error; err != nil {
		t.Fatalf("create image failed: %v", err)
	}
	low := createTestProduct(t, db, category.ID, brand.ID, "low-stock", "100")
	db.Model(low).Update("stock_quantity", 3)
	hidden := createTestProduct(t, db, category.ID, brand.ID, "hidden", "100")
	db.Model(hidden).Update("is_active", false)

	cases := []struct {
		status string
		want   int64
	}{
		{"", 3},
		{constants.AdminProductStatusActive, 2},
		{constants.AdminProductStatusInactive, 1},
		{constants.AdminProductStatusNoImages, 2},
		{constants.AdminProductStatusLowStock, 1},
	}
	for _, tc := range cases {
		_, total, err := svc.List(AdminProductQuery{Status: tc.status})
		if err != nil {
			t.Fatalf("list status=%q failed: %v", tc.status, err)
		}
		if total != tc.want {
			t.Fatalf("status=%q want %d got %d", tc.status, tc.want, total)
		}
	}
	if _, _, err := svc.List(AdminProductQuery{Status: "archived"}); err == nil {
		t.Fatalf("unknown status must fail")
	}
}

func TestAdminProductBulkAction(t *testing.T) {
	db := setupServiceTestDB(t)
	category, brand := createTestCatalog(t, db)
	svc := newTestAdminProductService(t, db)
	ctx := context.Background()

	a := createTestProduct(t, db, category.ID, brand.ID, "bulk-a", "100")
	b := createTestProduct(t, db, category.ID, brand.ID, "bulk-b", "100")

	if _, err := svc.BulkAction(ctx, constants.BulkActionFeature, nil); err == nil {
		t.Fatalf("empty ids must fail")
	} else if verr, ok := AsValidationError(err); !ok || verr.Fields["product_ids"] != "error.bulk_ids_required" {
		t.Fatalf("empty ids want bulk_ids_required got %v", err)
	}
	if _, err := svc.BulkAction(ctx, "explode", []uint{a.ID}); !errors.Is(err, ErrInvalidBulkAction) {
		t.Fatalf("unknown action want %v got %v", ErrInvalidBulkAction, err)
	}

	affected, err := svc.BulkAction(ctx, constants.BulkActionEnableTryOn, []uint{a.ID, b.ID, b.ID})
	if err != nil {
		t.Fatalf("bulk enable try-on failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("affected want 2 got %d", affected)
	}
	var enabled int64
	db.Model(&models.Product{}).Where("is_try_on_enabled = ?", true).Count(&enabled)
	if enabled != 2 {
		t.Fatalf("try-on enabled rows want 2 got %d", enabled)
	}

	affected, err = svc.BulkAction(ctx, constants.BulkActionDelete, []uint{a.ID})
	if err != nil || affected != 1 {
		t.Fatalf("bulk delete want 1 got %d err=%v", affected, err)
	}
	var remaining int64
	db.Model(&models.Product{}).Count(&remaining)
	if remaining != 1 {
		t.Fatalf("remaining products want 1 got %d", remaining)
	}
}

func TestAdminProductImageUpload(t *testing.T) {
	db := setupServiceTestDB(t)
	category, brand := createTestCatalog(t, db)
	svc := newTestAdminProductService(t, db)
	ctx := context.Background()
	product := createTestProduct(t, db, category.ID, brand.ID, "printed-tee", "499")

	first, err := svc.UploadImage(ctx, product.ID, buildFileHeader(t, "front.png", "image/png", testPNG(t, 40, 30)), ProductImageInput{})
	if err != nil {
		t.Fatalf("upload first image failed: %v", err)
	}
	if !first.IsPrimary || first.AltText != product.Name {
		t.Fatalf("first image must become primary with default alt text: %+v", first)
	}

	second, err := svc.UploadImage(ctx, product.ID, buildFileHeader(t, "back.png", "image/png", testPNG(t, 20, 20)), ProductImageInput{IsPrimary: true, AltText: "Back"})
	if err != nil {
		t.Fatalf("upload second image failed: %v", err)
	}
	var primaries []models.ProductImage
	db.Where("product_id = ? AND is_primary = ?", product.ID, true).Find(&primaries)
	if len(primaries) != 1 || primaries[0].ID != second.ID {
		t.Fatalf("exactly one primary expected, got %+v", primaries)
	}

	if _, err := svc.SetPrimaryImage(ctx, product.ID, first.ID); err != nil {
		t.Fatalf("set primary failed: %v", err)
	}
	db.Where("product_id = ? AND is_primary = ?", product.ID, true).Find(&primaries)
	if len(primaries) != 1 || primaries[0].ID != first.ID {
		t.Fatalf("primary must move back to first image, got %+v", primaries)
	}
	if _, err := svc.SetPrimaryImage(ctx, product.ID+1, first.ID); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("foreign image want %v got %v", ErrImageNotFound, err)
	}

	if _, err := svc.UploadImage(ctx, product.ID, buildFileHeader(t, "notes.png", "image/png", []byte("plain text")), ProductImageInput{}); !errors.Is(err, ErrFileTypeNotAllow) {
		t.Fatalf("non-image want %v got %v", ErrFileTypeNotAllow, err)
	}
	if _, err := svc.UploadImage(ctx, product.ID, buildFileHeader(t, "photo.gif", "image/gif", testPNG(t, 5, 5)), ProductImageInput{}); !errors.Is(err, ErrFileTypeNotAllow) {
		t.Fatalf("disallowed extension want %v got %v", ErrFileTypeNotAllow, err)
	}
	if _, err := svc.UploadImage(ctx, 9999, buildFileHeader(t, "x.png", "image/png", testPNG(t, 5, 5)), ProductImageInput{}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want %v got %v", ErrProductNotFound, err)
	}
}

func TestProductExportImportRoundTrip(t *testing.T) {
	db := setupServiceTestDB(t)
	category, brand := createTestCatalog(t, db)
	svc := newTestAdminProductService(t, db)
	exporter := NewExportService(repository.NewProductRepository(db), repository.NewOrderRepository(db))
	ctx := context.Background()

	createTestProduct(t, db, category.ID, brand.ID, "slim-jeans", "1499")
	createTestProduct(t, db, category.ID, brand.ID, "denim-jacket", "2999")

	buf := &bytes.Buffer{}
	if err := exporter.ExportProducts(buf, AdminProductQuery{}); err != nil {
		t.Fatalf("export products failed: %v", err)
	}
	book, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("open exported workbook failed: %v", err)
	}
	rows := book.Sheets[0].Rows
	if len(rows) != 3 {
		t.Fatalf("rows want header+2 got %d", len(rows))
	}
	if rows[0].Cells[0].String() != "ID" || rows[1].Cells[3].String() != category.Slug {
		t.Fatalf("exported cells unexpected: %s %s", rows[0].Cells[0].String(), rows[1].Cells[3].String())
	}

	// 修改价格后重新导入，同一 ID 走更新
	rows[1].Cells[6].SetValue("1799")
	newRow := book.Sheets[0].AddRow()
	for _, value := range []string{"", "Cargo Shorts", "", category.Slug, brand.Slug, "M", "899"} {
		newRow.AddCell().SetValue(value)
	}
	out := &bytes.Buffer{}
	if err := book.Write(out); err != nil {
		t.Fatalf("write workbook failed: %v", err)
	}

	result, err := svc.ImportProducts(ctx, buildFileHeader(t, "products.xlsx", XLSXContentType, out.Bytes()))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Updated != 2 || result.Created != 1 || len(result.Errors) != 0 {
		t.Fatalf("import result unexpected: %+v", result)
	}
	created, err := repository.NewProductRepository(db).GetBySlug("cargo-shorts", false)
	if err != nil || created == nil {
		t.Fatalf("imported product missing: %v", err)
	}

	if _, err := svc.ImportProducts(ctx, buildFileHeader(t, "products.csv", "text/csv", []byte("a,b"))); !errors.Is(err, ErrFileTypeNotAllow) {
		t.Fatalf("csv import want %v got %v", ErrFileTypeNotAllow, err)
	}
}
