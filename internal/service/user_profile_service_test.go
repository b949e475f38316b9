package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"gorm.io/gorm"
)

func newTestUserProfileService(db *gorm.DB) *UserProfileService {
	return NewUserProfileService(
		repository.NewUserRepository(db),
		repository.NewOrderRepository(db),
		repository.NewReviewRepository(db),
		repository.NewAddressRepository(db),
	)
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func TestUpdateProfile(t *testing.T) {
	db := setupServiceTestDB(t)
	user := createTestUser(t, db, "priya")
	svc := newTestUserProfileService(db)

	profile, err := svc.GetProfile(user.ID)
	if err != nil || profile.UserID != user.ID {
		t.Fatalf("missing profile must be created, got %+v err=%v", profile, err)
	}

	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{
		Gender:        strPtr("f"),
		PreferredSize: strPtr("xl"),
		Height:        intPtr(165),
		DateOfBirth:   strPtr("1995-04-12"),
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Gender != constants.ProfileGenderFemale || updated.PreferredSize != "XL" || *updated.Height != 165 {
		t.Fatalf("profile fields unexpected: %+v", updated)
	}
	if updated.DateOfBirth == nil || updated.DateOfBirth.Year() != 1995 {
		t.Fatalf("date of birth not parsed: %v", updated.DateOfBirth)
	}

	_, err = svc.UpdateProfile(user.ID, UpdateProfileInput{
		Gender:        strPtr("X"),
		PreferredSize: strPtr("XXXL"),
		Weight:        intPtr(0),
		PhoneNumber:   strPtr("12345"),
	})
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("want validation error got %v", err)
	}
	want := map[string]string{
		"gender":         "error.gender_invalid",
		"preferred_size": "error.preferred_size_invalid",
		"weight":         "error.positive_number",
		"phone_number":   "error.phone_invalid",
	}
	for field, key := range want {
		if verr.Fields[field] != key {
			t.Fatalf("field %s want %s got %s", field, key, verr.Fields[field])
		}
	}

	stored, err := svc.GetProfile(user.ID)
	if err != nil {
		t.Fatalf("reload profile failed: %v", err)
	}
	if stored.Gender != constants.ProfileGenderFemale {
		t.Fatalf("rejected update must not persist, gender=%s", stored.Gender)
	}
}

func TestUpdateUserDetails(t *testing.T) {
	db := setupServiceTestDB(t)
	user := createTestUser(t, db, "arjun")
	createTestUser(t, db, "taken")
	svc := newTestUserProfileService(db)
	ctx := context.Background()

	if _, err := svc.UpdateUserDetails(ctx, user.ID, UpdateUserDetailsInput{Email: strPtr("TAKEN@example.com")}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("taken email want %v got %v", ErrEmailExists, err)
	}
	if _, err := svc.UpdateUserDetails(ctx, user.ID, UpdateUserDetailsInput{Email: strPtr("bad")}); err == nil {
		t.Fatalf("invalid email must fail")
	}

	updated, err := svc.UpdateUserDetails(ctx, user.ID, UpdateUserDetailsInput{
		FirstName: strPtr(" Arjun "),
		LastName:  strPtr("Nair"),
		Email:     strPtr("arjun.nair@example.com"),
	})
	if err != nil {
		t.Fatalf("update details failed: %v", err)
	}
	if updated.FullName() != "Arjun Nair" || updated.Email != "arjun.nair@example.com" {
		t.Fatalf("details unexpected: %s %s", updated.FullName(), updated.Email)
	}
}

func TestUserDashboardCounts(t *testing.T) {
	db := setupServiceTestDB(t)
	user := createTestUser(t, db, "nisha")
	createTestAddress(t, db, user.ID, "Home", true)
	createTestAddress(t, db, user.ID, "Office", false)
	order := &models.Order{OrderNumber: "ORD00000000AA", UserID: user.ID, Status: constants.OrderStatusPending, PaymentStatus: constants.PaymentStatusPending}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	svc := newTestUserProfileService(db)

	dashboard, err := svc.UserDashboard(user.ID)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dashboard.OrdersCount != 1 || dashboard.AddressesCount != 2 || dashboard.ReviewsCount != 0 {
		t.Fatalf("dashboard counts unexpected: %+v", dashboard)
	}
	if _, err := svc.UserDashboard(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user want %v got %v", ErrNotFound, err)
	}
}
