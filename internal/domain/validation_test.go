package domain

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email       string
		expectError bool
	}{
		{"user@example.com", false},
		{"  Upper.Case@Example.COM  ", false},
		{"no-at-sign", true},
		{"missing@tld", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.expectError && err == nil {
			t.Errorf("ValidateEmail(%q): expected error, got nil", tt.email)
		}
		if !tt.expectError && err != nil {
			t.Errorf("ValidateEmail(%q): unexpected error: %v", tt.email, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for too-short password")
	}
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRegistration(t *testing.T) {
	base := func(role Role) *User {
		return &User{
			Name:       "Asha",
			Email:      "asha@example.com",
			Mobile:     "9999999999",
			GPayHandle: "asha@upi",
			Role:       role,
		}
	}

	t.Run("owner requires qr code", func(t *testing.T) {
		u := base(RoleOwner)
		if err := ValidateRegistration(u); err == nil {
			t.Error("expected error for owner without qr code")
		}

		u.QRCode = "base64-image"
		if err := ValidateRegistration(u); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("borrower requires bank details", func(t *testing.T) {
		u := base(RoleBorrower)
		if err := ValidateRegistration(u); err == nil {
			t.Error("expected error for borrower without bank details")
		}

		u.Address = "12 Main St"
		u.BankName = "State Bank"
		u.AccountHolderName = "Asha K"
		u.Photo = "base64-photo"
		if err := ValidateRegistration(u); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		u := base(Role("admin"))
		if err := ValidateRegistration(u); err == nil {
			t.Error("expected error for unknown role")
		}
	})
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("got limit=%d offset=%d, want defaults 50/0", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("got limit=%d, want capped at 1000", limit)
	}
}
