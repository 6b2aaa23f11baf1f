package jwttoken

import (
	"errors"
	"time"

	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims for our access tokens
type Claims struct {
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id"`
	TenantName string `json:"tenant_name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

func (s *JWTService) GenerateAccessToken(ident id.Identity, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:     ident.UserID.String(),
		TenantID:   ident.TenantID.String(),
		TenantName: ident.TenantName,
		Role:       ident.Role.String(),
		Email:      ident.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// ResolveIdentity validates a raw token and resolves its claims into the
// caller identity. This is the entry point the auth middleware uses.
func (s *JWTService) ResolveIdentity(tokenString string) (id.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return id.Identity{}, err
	}
	return claims.Identity()
}

// Identity resolves validated claims into the caller identity attached to
// every request. Malformed IDs or unknown role spellings are rejected here so
// downstream code never sees a half-built identity.
func (c *Claims) Identity() (id.Identity, error) {
	userID, err := id.ParseUserID(c.UserID)
	if err != nil {
		return id.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	tenantID, err := id.ParseTenantID(c.TenantID)
	if err != nil {
		return id.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role, err := id.ParseRole(c.Role)
	if err != nil {
		return id.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return id.Identity{
		UserID:     userID,
		TenantID:   tenantID,
		TenantName: c.TenantName,
		Role:       role,
		Email:      c.Email,
	}, nil
}
