package services

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

// AuthSvcFacade authenticates staff accounts and mints API tokens.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed token plus the staff account.
	Login(ctx context.Context, username string, password string) (string, *domain.StaffUser, error)
}
