package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor identidad autenticada que viaja en el token: qué usuario opera el
// ledger, sobre qué empresa (tenant) y con qué rol. Todo lo que el middleware
// necesita para tenancy y RBAC sin consultar la base.
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}

// ledgerClaims claims propios sobre los registrados: el subject lleva el
// UserID; cid y role completan el actor.
type ledgerClaims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"cid"`
	Role      string `json:"role"`
}

// ErrEmptySecret el signer no puede operar sin secreto de firma.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Signer firma y verifica tokens HS256 con issuer y vigencia fijos. Se
// construye una vez desde la configuración y se comparte entre el caso de uso
// de auth (emite) y el middleware HTTP (verifica).
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner construye el signer. expMinutes negativo produce tokens ya
// vencidos, útil solo en pruebas.
func NewSigner(secret, issuer string, expMinutes int) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(expMinutes) * time.Minute,
	}, nil
}

// Sign emite un token firmado para el actor.
func (s *Signer) Sign(actor Actor) (string, error) {
	now := time.Now()
	claims := ledgerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		CompanyID: actor.CompanyID,
		Role:      actor.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify valida firma, algoritmo, issuer y expiración, y reconstruye el actor.
func (s *Signer) Verify(tokenString string) (Actor, error) {
	var claims ledgerClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Actor{}, err
	}
	return Actor{
		UserID:    claims.Subject,
		CompanyID: claims.CompanyID,
		Role:      claims.Role,
	}, nil
}
