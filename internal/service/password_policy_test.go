package service

import (
	"errors"
	"testing"

	"github.com/tryon-shop/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true}
	cases := []struct {
		name     string
		password string
		key      string
	}{
		{name: "ok", password: "tryon2024", key: ""},
		{name: "too short", password: "ab1", key: "error.password_min_length"},
		{name: "all numeric", password: "1234567890", key: "error.password_all_numeric"},
		{name: "no number", password: "abcdefghij", key: "error.password_require_number"},
		{name: "no lower", password: "ABCDEFGH12", key: "error.password_require_lower"},
		{name: "empty", password: "", key: "error.password_required"},
		{name: "common", password: "Password1", key: "error.password_too_common"},
		{name: "contains username", password: "xpriya2024", key: "error.password_too_similar"},
		{name: "contains email local part", password: "iyer-fits-9", key: "error.password_too_similar"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password, "Priya", "iyer@example.com")
			if tc.key == "" {
				if err != nil {
					t.Fatalf("want nil got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("want ErrWeakPassword got %v", err)
			}
			var policyErr passwordPolicyError
			if !errors.As(err, &policyErr) || policyErr.Key() != tc.key {
				t.Fatalf("key want %s got %v", tc.key, err)
			}
		})
	}
}

func TestValidatePasswordMinLengthArgs(t *testing.T) {
	err := validatePassword(config.PasswordPolicyConfig{MinLength: 10}, "short1a")
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("want policy error got %v", err)
	}
	if len(policyErr.Args()) != 1 || policyErr.Args()[0] != 10 {
		t.Fatalf("args want [10] got %v", policyErr.Args())
	}
}
