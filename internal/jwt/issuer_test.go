package jwt

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSeed() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func TestIssueAndParseRoundtrip(t *testing.T) {
	iss, err := NewIssuer("edunexus", testSeed(), time.Hour)
	require.NoError(t, err)

	tok, exp, err := iss.IssueSession(SessionClaims{
		Sub:         "inst-1",
		Role:        RoleInstitute,
		Name:        "Ana",
		InstituteID: "inst-1",
	})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	sc, err := iss.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "inst-1", sc.Sub)
	require.Equal(t, RoleInstitute, sc.Role)
	require.Equal(t, "Ana", sc.Name)
	require.Equal(t, "inst-1", sc.InstituteID)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	a, err := NewIssuer("edunexus", testSeed(), time.Hour)
	require.NoError(t, err)
	b, err := NewIssuer("otro", testSeed(), time.Hour)
	require.NoError(t, err)

	tok, _, err := b.IssueSession(SessionClaims{Sub: "x", Role: RoleStudent})
	require.NoError(t, err)

	_, err = a.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidIssuer)
}

func TestParseRejectsWrongKey(t *testing.T) {
	a, err := NewIssuer("edunexus", testSeed(), time.Hour)
	require.NoError(t, err)
	// clave efímera distinta
	b, err := NewIssuer("edunexus", "", time.Hour)
	require.NoError(t, err)

	tok, _, err := b.IssueSession(SessionClaims{Sub: "x", Role: RoleTeacher})
	require.NoError(t, err)

	_, err = a.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	iss, err := NewIssuer("edunexus", testSeed(), -2*time.Minute)
	require.NoError(t, err)
	// NewIssuer normaliza TTL <= 0 a 12h; forzamos la expiración a mano
	iss.AccessTTL = -2 * time.Minute

	tok, _, err := iss.IssueSession(SessionClaims{Sub: "x", Role: RoleStudent})
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	iss, err := NewIssuer("edunexus", testSeed(), time.Hour)
	require.NoError(t, err)

	_, err = iss.Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRejectsBadSeed(t *testing.T) {
	_, err := NewIssuer("edunexus", "zzz!!", time.Hour)
	require.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = NewIssuer("edunexus", short, time.Hour)
	require.Error(t, err)
}
