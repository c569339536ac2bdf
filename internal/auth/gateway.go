// Package auth is the account gateway: it issues and verifies bearer tokens
// and hashes passwords. The signing key comes from configuration.
package auth

import (
	"errors"
	"time" // Time for token expiration

	"shop_backend/internal/apperr"

	"github.com/golang-jwt/jwt/v5" // JWT library
	"golang.org/x/crypto/bcrypt"   // Password hashing
)

// Identity is the verified caller
type Identity struct {
	UserID string
	Role   string
}

// Claims are the JWT claims
type Claims struct {
	UserID               string `json:"user_id"` // Custom claim for user ID
	Role                 string `json:"role"`    // Custom claim for role
	jwt.RegisteredClaims                         // Standard JWT claims
}

// Gateway issues and verifies HS256 tokens
type Gateway struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGateway builds a Gateway; an empty secret is refused
func NewGateway(secret string, ttl time.Duration) (*Gateway, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Gateway{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a signed token for the identity
func (g *Gateway) Issue(id Identity) (string, error) {
	now := g.now()
	claims := Claims{
		UserID: id.UserID,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(g.secret)                        // Sign the token with the secret
}

// Verify parses and validates a token string
func (g *Gateway) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return g.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(g.now))
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.KindUnauthenticated, "verifyToken", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Identity{}, apperr.E(apperr.KindUnauthenticated, "verifyToken", "invalid token")
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
