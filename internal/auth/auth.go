package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Capability names gate the voucher lifecycle operations. They are stored
// in the permissions table and attached to users via user_permissions.
const (
	CapRedeemVoucher  = "redeem_voucher"
	CapApproveRequest = "approve_request"
	CapRejectRequest  = "reject_request"
	CapMarkPaid       = "change_to_paid"
	CapAdmin          = "admin"
)

type User struct {
	ID          int64    `json:"id"`
	CompanyID   *int64   `json:"company_id,omitempty"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(name string) bool {
	for _, p := range u.Permissions {
		if p == name || p == CapAdmin {
			return true
		}
	}
	return false
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// ServiceAPI is the surface the HTTP handler and middleware depend on.
type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*User, error)
}

type ctxKey string

const ContextUserKey ctxKey = "user"

// UserFromContext extracts the authenticated user set by AuthMiddleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
