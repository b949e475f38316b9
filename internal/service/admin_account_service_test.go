package service

import (
	"errors"
	"testing"

	"github.com/tryon-shop/internal/authz"
	"github.com/tryon-shop/internal/repository"
)

func TestAdminAccountCreateAndRoles(t *testing.T) {
	db := setupServiceTestDB(t)
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("init authz failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	svc := NewAdminAccountService(testConfig(), repository.NewAdminRepository(db), authzService)

	if _, err := svc.Create(CreateAdminInput{Username: "cm", Password: "catalog42x", Roles: []string{"finance"}}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("unknown role want %v got %v", ErrInvalidRole, err)
	}
	created, err := svc.Create(CreateAdminInput{Username: "cm", Password: "catalog42x", Roles: []string{authz.RoleCatalogManager}})
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if created.IsSuper || len(created.Roles) != 1 || created.Roles[0] != "role:catalog_manager" {
		t.Fatalf("created admin unexpected: %+v roles=%v", created.Admin, created.Roles)
	}
	if _, err := svc.Create(CreateAdminInput{Username: "cm", Password: "catalog42x"}); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("duplicate admin want %v got %v", ErrAdminExists, err)
	}

	allowed, err := authzService.EnforceAdmin(created.ID, "/api/v1/admin/products", "POST")
	if err != nil || !allowed {
		t.Fatalf("catalog manager must create products, allow=%v err=%v", allowed, err)
	}

	updated, err := svc.SetRoles(created.ID, []string{authz.RoleOrderManager})
	if err != nil || updated.Roles[0] != "role:order_manager" {
		t.Fatalf("set roles unexpected: %+v err=%v", updated, err)
	}
	if _, err := svc.SetRoles(9999, nil); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("missing admin want %v got %v", ErrAdminNotFound, err)
	}

	list, err := svc.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("list admins want 1 got %d err=%v", len(list), err)
	}
}
