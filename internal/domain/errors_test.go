package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	notFound := []error{
		ErrUserNotFound,
		ErrOrderNotFound,
		ErrOrderItemNotFound,
		ErrItemNotFound,
		ErrWarrantyNotFound,
	}
	for _, err := range notFound {
		if !IsNotFound(err) {
			t.Errorf("IsNotFound(%v) = false, want true", err)
		}
	}

	if IsNotFound(ErrItemNotAvailable) {
		t.Error("IsNotFound(ErrItemNotAvailable) = true, want false")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true, want false")
	}
}

func TestIsNotFoundWrapped(t *testing.T) {
	err := fmt.Errorf("load order: %w", ErrOrderNotFound)
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true for wrapped error", err)
	}
}

func TestIsAccessError(t *testing.T) {
	access := []error{ErrWarehouseAccess, ErrWarrantyAccess, ErrOrderAccess}
	for _, err := range access {
		if !IsAccessError(err) {
			t.Errorf("IsAccessError(%v) = false, want true", err)
		}
		if !IsAccessError(fmt.Errorf("call peer: %w", err)) {
			t.Errorf("IsAccessError should see through wrapping of %v", err)
		}
	}

	if IsAccessError(errors.New("boom")) {
		t.Error("IsAccessError(plain error) = true, want false")
	}
}
