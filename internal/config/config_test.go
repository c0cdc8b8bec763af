package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	c := Default()

	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, 6, c.OTP.Digits)
	require.Equal(t, 10, c.OTP.BcryptCost)
	require.Equal(t, 600*time.Second, c.OTPTTL())
	require.Equal(t, 12*time.Hour, c.AccessTTL())
	require.False(t, c.Rate.Enabled)
	require.Equal(t, 5, c.Rate.SendCode.Limit)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
app:
  env: dev
  name: EduNexus
server:
  addr: ":9090"
otp:
  digits: 8
  ttl: 5m
cache:
  kind: redis
  redis:
    addr: localhost:6379
`)
	c, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", c.Server.Addr)
	require.Equal(t, 8, c.OTP.Digits)
	require.Equal(t, 5*time.Minute, c.OTPTTL())
	require.Equal(t, "redis", c.Cache.Kind)
	require.Equal(t, "localhost:6379", c.Cache.Redis.Addr)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("OTP_TTL", "300")
	t.Setenv("OTP_DIGITS", "6")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	path := writeConfig(t, "app:\n  env: dev\n")
	c, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":7000", c.Server.Addr)
	require.Equal(t, 300*time.Second, c.OTPTTL())
	require.Equal(t, "smtp.example.com", c.SMTP.Host)
}

func TestOTPTTLAcceptsDuration(t *testing.T) {
	t.Setenv("OTP_TTL", "15m")
	path := writeConfig(t, "app:\n  env: dev\n")
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, c.OTPTTL())
}

func TestValidateRejectsBadDigits(t *testing.T) {
	path := writeConfig(t, "otp:\n  digits: 2\n")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "otp.digits")
}

func TestValidateRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "otp:\n  ttl: pronto\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestProdForcesTLSVerify(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
smtp:
  insecure_skip_verify: true
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.False(t, c.SMTP.InsecureSkipVerify)
}
