package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid_jwt")
	ErrInvalidIssuer = errors.New("invalid_issuer")
)

// Parse valida firma (EdDSA), chequea iss y valida exp/nbf con una
// pequeña tolerancia de reloj. Devuelve los claims de sesión.
func (i *Issuer) Parse(token string) (*SessionClaims, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		// Un solo keypair activo; el kid del header se ignora si coincide
		// o está ausente (tokens viejos del mismo proceso).
		return i.pub, nil
	}

	tok, err := jwtv5.Parse(token, keyfunc,
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithoutClaimsValidation(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if i.Iss != "" {
		if iss, _ := claims["iss"].(string); iss != i.Iss {
			return nil, ErrInvalidIssuer
		}
	}

	now := time.Now()
	if expf, ok := claims["exp"].(float64); ok {
		if time.Unix(int64(expf), 0).Before(now.Add(-30 * time.Second)) {
			return nil, ErrInvalidToken
		}
	}
	if nbff, ok := claims["nbf"].(float64); ok {
		if time.Unix(int64(nbff), 0).After(now.Add(30 * time.Second)) {
			return nil, ErrInvalidToken
		}
	}

	sc := &SessionClaims{}
	sc.Sub, _ = claims["sub"].(string)
	sc.Role, _ = claims["role"].(string)
	sc.Name, _ = claims["name"].(string)
	sc.InstituteID, _ = claims["institute_id"].(string)
	return sc, nil
}
