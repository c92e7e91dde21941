package fixtures

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ContextWithUser returns ctx carrying a verified access token for the user,
// as jwtauth.Verifier would leave it.
func ContextWithUser(ctx context.Context, userID string, role user.Role) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", userID)
	_ = token.Set("role", string(role))
	_ = token.Set("type", "access")
	return jwtauth.NewContext(ctx, token, nil)
}
