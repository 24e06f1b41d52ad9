package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por la API de digitalización.
const (
	RoleAdmin     = "admin"     // administra catálogos y procesa facturas
	RoleDigitizer = "digitador" // integración OCR: envía facturas a procesar
	RoleAuditor   = "auditor"   // solo lectura
)

// Claims incluye los claims estándar JWT más la empresa y el rol del cliente.
// Subject identifica al usuario o a la integración que llama.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// TokenInput son los datos para emitir un token.
type TokenInput struct {
	Subject   string
	CompanyID string
	Role      string
	Issuer    string
	TTL       time.Duration
}

// Generate emite un token HS256 firmado con secret.
func Generate(secret string, in TokenInput) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	if in.Subject == "" {
		return "", errors.New("jwt: subject vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    in.Issuer,
			Subject:   in.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(in.TTL)),
		},
		CompanyID: in.CompanyID,
		Role:      in.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, expiración y, si issuer no está vacío, el emisor del token.
func Parse(secret, tokenString, issuer string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("jwt: claims inválidos")
	}
	return claims, nil
}
