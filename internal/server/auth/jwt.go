// Package auth issues and verifies the HS256 access tokens presented by
// download clients.
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// AnyWorkspace in Claims.Workspaces grants access to every workspace.
const AnyWorkspace = "*"

// Claims carries the standard claims plus the workspaces the bearer may
// download from. The subject is the user or box the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	Workspaces []string `json:"ws"`
}

// Allows reports whether the token grants access to the workspace.
func (c *Claims) Allows(workspaceExternalID string) bool {
	return slices.Contains(c.Workspaces, AnyWorkspace) || slices.Contains(c.Workspaces, workspaceExternalID)
}

func GenerateToken(subject string, workspaces []string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Workspaces: workspaces,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry. Expired tokens yield
// common.ErrTokenExpired, anything else that fails yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
