package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a bad username/password pair. The two
// cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid username or password")

type authService struct {
	staffRepo portsrepo.StaffRepositoryFacade
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new staff authentication service.
func NewAuthService(staffRepo portsrepo.StaffRepositoryFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		staffRepo: staffRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

// Login verifies credentials and mints a signed token carrying the staff ID as
// its subject.
func (s *authService) Login(ctx context.Context, username string, password string) (string, *domain.StaffUser, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	staff, err := s.staffRepo.FindStaffByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up staff account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Failed login attempt", slog.String("username", username))
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   staff.StaffID,
		Issuer:    s.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("Staff logged in", slog.String("staffID", staff.StaffID))
	return signed, staff, nil
}
