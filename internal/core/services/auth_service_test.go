package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/SscSPs/library_circulation_app/internal/core/services"
)

const testJWTSecret = "test-secret"

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	staffRepo := new(MockStaffRepository)
	svc := services.NewAuthService(staffRepo, testJWTSecret, time.Hour, "library-circulation-app")

	staffRepo.On("FindStaffByUsername", mock.Anything, "desk.clerk").
		Return(&domain.StaffUser{
			StaffID:      "staff-1",
			Username:     "desk.clerk",
			PasswordHash: hashedPassword(t, "correct horse"),
			BranchID:     "branch-1",
		}, nil)

	signed, staff, err := svc.Login(context.Background(), "desk.clerk", "correct horse")

	require.NoError(t, err)
	assert.Equal(t, "staff-1", staff.StaffID)

	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "staff-1", claims.Subject)
	assert.Equal(t, "library-circulation-app", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginWrongPassword(t *testing.T) {
	staffRepo := new(MockStaffRepository)
	svc := services.NewAuthService(staffRepo, testJWTSecret, time.Hour, "library-circulation-app")

	staffRepo.On("FindStaffByUsername", mock.Anything, "desk.clerk").
		Return(&domain.StaffUser{
			StaffID:      "staff-1",
			Username:     "desk.clerk",
			PasswordHash: hashedPassword(t, "correct horse"),
		}, nil)

	_, _, err := svc.Login(context.Background(), "desk.clerk", "battery staple")

	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginUnknownUsername(t *testing.T) {
	staffRepo := new(MockStaffRepository)
	svc := services.NewAuthService(staffRepo, testJWTSecret, time.Hour, "library-circulation-app")

	staffRepo.On("FindStaffByUsername", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError("staff not found"))

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")

	// Unknown user and wrong password are indistinguishable.
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
