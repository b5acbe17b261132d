// Package identity holds the authenticated identity derived from the
// backend-issued bearer credential.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles the backend issues.
const (
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// ErrNoIdentity is returned when no valid credential is present.
var ErrNoIdentity = errors.New("identity: not logged in")

// Identity is the current authenticated user as seen by the client.
type Identity struct {
	ID          string
	Role        string
	DisplayName string
}

// claims mirrors the backend token payload: sub, role, fullName, exp.
type claims struct {
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// Decode extracts an Identity from a bearer token. The token is issued
// and signed by the backend; the client only reads claims and checks
// expiry, it does not hold the signing key. An expired or malformed
// token yields ErrNoIdentity.
func Decode(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrNoIdentity
	}

	var c claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &c); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(time.Now()) {
		return Identity{}, fmt.Errorf("%w: credential expired", ErrNoIdentity)
	}
	if strings.TrimSpace(c.Subject) == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrNoIdentity)
	}

	return Identity{
		ID:          c.Subject,
		Role:        c.Role,
		DisplayName: c.FullName,
	}, nil
}
