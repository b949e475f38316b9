package service

import (
	"errors"
	"testing"

	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"
)

func validAddressInput(name string, isDefault bool) AddressInput {
	return AddressInput{
		Name:         name,
		AddressLine1: "221B Residency Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560025",
		PhoneNumber:  "9123456780",
		IsDefault:    isDefault,
	}
}

func countDefaultAddresses(t *testing.T, svc *AddressService, userID uint) (int, uint) {
	t.Helper()
	addresses, err := svc.List(userID)
	if err != nil {
		t.Fatalf("list addresses failed: %v", err)
	}
	count := 0
	var defaultID uint
	for _, address := range addresses {
		if address.IsDefault {
			count++
			defaultID = address.ID
		}
	}
	return count, defaultID
}

func TestAddressServiceSetDefaultKeepsSingleDefault(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAddressService(repository.NewAddressRepository(db))
	user := createTestUser(t, db, "harry")

	a, err := svc.Create(user.ID, validAddressInput("Home", true))
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(user.ID, validAddressInput("Office", false))
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}
	if b.Country != "India" {
		t.Fatalf("country want India got %s", b.Country)
	}

	if _, err := svc.SetDefault(user.ID, b.ID); err != nil {
		t.Fatalf("set default failed: %v", err)
	}
	count, defaultID := countDefaultAddresses(t, svc, user.ID)
	if count != 1 || defaultID != b.ID {
		t.Fatalf("want exactly one default (%d), got count=%d id=%d", b.ID, count, defaultID)
	}

	if _, err := svc.Create(user.ID, validAddressInput("Parents", true)); err != nil {
		t.Fatalf("create C failed: %v", err)
	}
	count, defaultID = countDefaultAddresses(t, svc, user.ID)
	if count != 1 || defaultID == a.ID || defaultID == b.ID {
		t.Fatalf("creating a default address should move the default, got count=%d id=%d", count, defaultID)
	}
}

func TestAddressServiceScopesByOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAddressService(repository.NewAddressRepository(db))
	owner := createTestUser(t, db, "ivy")
	other := createTestUser(t, db, "jack")
	address := createTestAddress(t, db, owner.ID, "Home", true)
	otherDefault := createTestAddress(t, db, other.ID, "Flat", true)

	if _, err := svc.Get(other.ID, address.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign get want ErrAddressNotFound got %v", err)
	}
	if _, err := svc.Update(other.ID, address.ID, validAddressInput("Hijack", false)); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign update want ErrAddressNotFound got %v", err)
	}
	if err := svc.Delete(other.ID, address.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign delete want ErrAddressNotFound got %v", err)
	}
	if _, err := svc.SetDefault(other.ID, address.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign set default want ErrAddressNotFound got %v", err)
	}

	var reloaded models.ShippingAddress
	if err := db.First(&reloaded, otherDefault.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.IsDefault {
		t.Fatalf("failed set default must roll back the cleared default")
	}
}

func TestAddressServiceValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAddressService(repository.NewAddressRepository(db))
	user := createTestUser(t, db, "kate")

	input := validAddressInput("", false)
	input.PostalCode = "5600"
	input.PhoneNumber = "1234567890"
	_, err := svc.Create(user.ID, input)
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("want validation error got %v", err)
	}
	for _, field := range []string{"name", "postal_code", "phone_number"} {
		if verr.Fields[field] == "" {
			t.Fatalf("field %s should fail, got %+v", field, verr.Fields)
		}
	}
}

func TestAddressServiceUpdateAndDelete(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAddressService(repository.NewAddressRepository(db))
	user := createTestUser(t, db, "leo")
	first := createTestAddress(t, db, user.ID, "Home", true)
	second := createTestAddress(t, db, user.ID, "Office", false)

	updated, err := svc.Update(user.ID, second.ID, validAddressInput("Office HQ", true))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Office HQ" || !updated.IsDefault {
		t.Fatalf("unexpected updated address: %+v", updated)
	}
	count, defaultID := countDefaultAddresses(t, svc, user.ID)
	if count != 1 || defaultID != second.ID {
		t.Fatalf("want default %d got count=%d id=%d", second.ID, count, defaultID)
	}

	if err := svc.Delete(user.ID, first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(user.ID, first.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("deleted address want ErrAddressNotFound got %v", err)
	}
}
