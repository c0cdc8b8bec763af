package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos en el claim "role".
const (
	RoleInstitute = "institute"
	RoleStudent   = "student"
	RoleTeacher   = "teacher"
	RoleUser      = "user"
)

// Issuer firma tokens de sesión con Ed25519.
type Issuer struct {
	Iss       string // "iss"
	AccessTTL time.Duration

	kid  string
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewIssuer crea un Issuer a partir de un seed base64 de 32 bytes.
// Con seed vacío genera una clave efímera (los tokens mueren con el proceso).
func NewIssuer(iss, seedB64 string, accessTTL time.Duration) (*Issuer, error) {
	var priv ed25519.PrivateKey
	if strings.TrimSpace(seedB64) == "" {
		_, p, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("jwt: generate key: %w", err)
		}
		priv = p
	} else {
		seed, err := base64.StdEncoding.DecodeString(seedB64)
		if err != nil {
			return nil, fmt.Errorf("jwt: decode seed: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("jwt: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
		}
		priv = ed25519.NewKeyFromSeed(seed)
	}
	pub := priv.Public().(ed25519.PublicKey)
	sum := sha256.Sum256(pub)
	if accessTTL <= 0 {
		accessTTL = 12 * time.Hour
	}
	return &Issuer{
		Iss:       iss,
		AccessTTL: accessTTL,
		kid:       hex.EncodeToString(sum[:8]),
		priv:      priv,
		pub:       pub,
	}, nil
}

// KID retorna el key id activo.
func (i *Issuer) KID() string { return i.kid }

// SessionClaims son los claims propios que viajan en el token de sesión.
// El route gate solo lee Role y el subject.
type SessionClaims struct {
	Sub         string
	Role        string
	Name        string
	InstituteID string
}

// IssueSession firma un token de sesión con los claims estándar + role.
func (i *Issuer) IssueSession(sc SessionClaims) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss":  i.Iss,
		"sub":  sc.Sub,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  exp.Unix(),
		"role": sc.Role,
	}
	if sc.Name != "" {
		claims["name"] = sc.Name
	}
	if sc.InstituteID != "" {
		claims["institute_id"] = sc.InstituteID
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.kid
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.priv)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
