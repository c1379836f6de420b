// Package jwt emite y valida los access tokens del back office.
// Tokens HS256 firmados con el secret del servicio; los claims llevan
// el model (tenant) y el rol del usuario.
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Tipos de token ("typ" claim propio).
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims son los claims propios dentro del token.
type Claims struct {
	ModelID   string `json:"mid"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	TokenType string `json:"tkt"`
	jwtv5.RegisteredClaims
}

// Issuer firma y valida tokens con un secret compartido.
type Issuer struct {
	Iss        string
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewIssuer(iss string, secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 720 * time.Hour
	}
	return &Issuer{Iss: iss, Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

// IssueAccess emite un access token para un usuario del back office.
func (i *Issuer) IssueAccess(userID, modelID, role, email string) (string, time.Time, error) {
	return i.issue(userID, modelID, role, email, TypeAccess, i.AccessTTL)
}

// IssueRefresh emite un refresh token de larga duración.
func (i *Issuer) IssueRefresh(userID, modelID, role, email string) (string, time.Time, error) {
	return i.issue(userID, modelID, role, email, TypeRefresh, i.RefreshTTL)
}

func (i *Issuer) issue(userID, modelID, role, email, typ string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := Claims{
		ModelID:   modelID,
		Role:      role,
		Email:     email,
		TokenType: typ,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccess valida un access token.
func (i *Issuer) ParseAccess(token string) (*Claims, error) {
	c, err := i.Parse(token)
	if err != nil {
		return nil, err
	}
	if c.TokenType != TypeAccess {
		return nil, ErrTokenInvalid
	}
	return c, nil
}

// ParseRefresh valida un refresh token.
func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	c, err := i.Parse(token)
	if err != nil {
		return nil, err
	}
	if c.TokenType != TypeRefresh {
		return nil, ErrTokenInvalid
	}
	return c, nil
}

// Parse valida firma, issuer y expiración, y devuelve los claims.
func (i *Issuer) Parse(token string) (*Claims, error) {
	var claims Claims
	tk, err := jwtv5.ParseWithClaims(token, &claims, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.Secret, nil
	}, jwtv5.WithIssuer(i.Iss), jwtv5.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tk.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
