package jwt

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// ErrMissingClaim is returned when the verified token lacks an expected claim.
var ErrMissingClaim = errors.New("token is missing a required claim")

// UserIDFromContext returns the user_id claim of the token verified by jwtauth.
func UserIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id: %w", ErrMissingClaim)
	}
	return userID, nil
}

// RoleFromContext returns the role claim of the verified token.
func RoleFromContext(ctx context.Context) (user.Role, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).IsValid() {
		return "", fmt.Errorf("role: %w", ErrMissingClaim)
	}
	return user.Role(role), nil
}
