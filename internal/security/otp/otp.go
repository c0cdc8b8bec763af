// Package otp genera y verifica códigos numéricos de un solo uso.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Params controla la generación y el hasheo de códigos.
type Params struct {
	Digits     int           // largo del código (default 6)
	BcryptCost int           // work factor del hash (default 10)
	TTL        time.Duration // vigencia (default 600s)
}

// Default son los parámetros usados en producción.
var Default = Params{Digits: 6, BcryptCost: 10, TTL: 600 * time.Second}

// Generate devuelve un código de p.Digits dígitos decimales.
// Se sortea uniforme en [0, 10^Digits) y se rellena con ceros a la
// izquierda, así cada dígito queda uniformemente distribuido y no hay
// sesgo por módulo sobre un rango más ancho.
func Generate(p Params) (string, error) {
	digits := p.Digits
	if digits <= 0 {
		digits = Default.Digits
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("otp: generate: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// Hash devuelve el hash bcrypt del código. El código en claro nunca se
// persiste; solo viaja en el email al destinatario.
func Hash(p Params, code string) (string, error) {
	cost := p.BcryptCost
	if cost <= 0 {
		cost = Default.BcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", fmt.Errorf("otp: hash: %w", err)
	}
	return string(b), nil
}

// Compare verifica el código contra el hash persistido.
func Compare(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

// ExpiryFrom calcula el instante absoluto de expiración.
func ExpiryFrom(p Params, now time.Time) time.Time {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = Default.TTL
	}
	return now.Add(ttl)
}
