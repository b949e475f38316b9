package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tryon-shop/internal/repository"

	"gorm.io/gorm"
)

func newTestCategoryService(db *gorm.DB) *CategoryService {
	return NewCategoryService(repository.NewCategoryRepository(db), repository.NewBrandRepository(db))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Men's Shirts":       "men-s-shirts",
		"  Winter  Wear  ":   "winter-wear",
		"--already-slugged":  "already-slugged",
		"Ethnic & Festive!!": "ethnic-festive",
		"???":                "",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) want %q got %q", input, want, got)
		}
	}
}

func TestCategoryLifecycle(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCategoryService(db)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Kurtas", SortOrder: 2})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if category.Slug != "kurtas" || !category.IsActive {
		t.Fatalf("category defaults unexpected: %+v", category)
	}
	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "Kurtas Two", Slug: "KURTAS"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("duplicate slug want %v got %v", ErrSlugExists, err)
	}
	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "  "}); err == nil {
		t.Fatalf("blank name must fail")
	}

	inactive := false
	updated, err := svc.UpdateCategory(ctx, category.ID, CategoryInput{Name: "Kurtas", Slug: "kurtas", IsActive: &inactive})
	if err != nil {
		t.Fatalf("update category failed: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("category must be deactivated")
	}
	if _, err := svc.UpdateCategory(ctx, 9999, CategoryInput{Name: "x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("missing category want %v got %v", ErrCategoryNotFound, err)
	}

	brand, err := svc.CreateBrand(ctx, BrandInput{Name: "Fab India", Website: "https://example.com"})
	if err != nil {
		t.Fatalf("create brand failed: %v", err)
	}
	createTestProduct(t, db, category.ID, brand.ID, "cotton-kurta", "1299")

	if err := svc.DeleteCategory(ctx, category.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("category with products want %v got %v", ErrCategoryInUse, err)
	}
	if err := svc.DeleteBrand(ctx, brand.ID); !errors.Is(err, ErrBrandInUse) {
		t.Fatalf("brand with products want %v got %v", ErrBrandInUse, err)
	}

	empty, err := svc.CreateBrand(ctx, BrandInput{Name: "Unused"})
	if err != nil {
		t.Fatalf("create unused brand failed: %v", err)
	}
	if err := svc.DeleteBrand(ctx, empty.ID); err != nil {
		t.Fatalf("delete unused brand failed: %v", err)
	}
	brands, err := svc.ListBrands()
	if err != nil || len(brands) != 1 {
		t.Fatalf("brands want 1 got %d err=%v", len(brands), err)
	}
}
