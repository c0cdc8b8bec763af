package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env  string `yaml:"env"`
		Name string `yaml:"name"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
	} `yaml:"server"`

	Storage struct {
		// DSN de la base global (institutos + login_activity)
		DSN string `yaml:"dsn"`
		// TenantDSNTemplate arma el DSN por instituto; %s se reemplaza por el
		// institute_code en minúsculas. Ej: postgres://.../edunexus_%s
		TenantDSNTemplate string `yaml:"tenant_dsn_template"`
		Postgres          struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache CacheConfig `yaml:"cache"`

	JWT struct {
		Issuer    string `yaml:"issuer"`
		AccessTTL string `yaml:"access_ttl"`
		// Ed25519Seed: base64(32 bytes). Si está vacío se genera una clave
		// efímera al arrancar (solo útil en dev).
		Ed25519Seed string `yaml:"ed25519_seed"`
	} `yaml:"jwt"`

	OTP struct {
		// Digits del código numérico (default 6).
		Digits int `yaml:"digits"`
		// BcryptCost para hashear el código (default 10).
		BcryptCost int `yaml:"bcrypt_cost"`
		// TTL del código, en duración Go (default 600s).
		TTL string `yaml:"ttl"`
	} `yaml:"otp"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		SendCode struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"send_code"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

// CacheConfig selecciona el backend de cache y su tuning.
type CacheConfig struct {
	Kind   string            `yaml:"kind"` // memory | redis
	Redis  RedisConfig       `yaml:"redis"`
	Memory MemoryCacheConfig `yaml:"memory"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type MemoryCacheConfig struct {
	DefaultTTL string `yaml:"default_ttl"`
}

// Load lee el YAML, aplica defaults, overrides por env y valida.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default retorna una configuración con todos los defaults aplicados,
// sin leer archivo. Útil para tests y para el arranque mínimo en dev.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "EduNexus"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "12h"
	}
	if c.OTP.Digits == 0 {
		c.OTP.Digits = 6
	}
	if c.OTP.BcryptCost == 0 {
		c.OTP.BcryptCost = 10
	}
	if c.OTP.TTL == "" {
		c.OTP.TTL = "600s"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.SendCode.Limit == 0 {
		c.Rate.SendCode.Limit = 5
	}
	if c.Rate.SendCode.Window == "" {
		c.Rate.SendCode.Window = "10m"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("TENANT_DSN_TEMPLATE"); v != "" {
		c.Storage.TenantDSNTemplate = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("JWT_ED25519_SEED"); v != "" {
		c.JWT.Ed25519Seed = v
	}
	if v, ok := envInt("OTP_DIGITS"); ok {
		c.OTP.Digits = v
	}
	if v, ok := envInt("OTP_HASH_COST"); ok {
		c.OTP.BcryptCost = v
	}
	if v := os.Getenv("OTP_TTL"); v != "" {
		// acepta "600" (segundos) o una duración Go ("10m")
		if n, err := strconv.Atoi(v); err == nil {
			c.OTP.TTL = fmt.Sprintf("%ds", n)
		} else {
			c.OTP.TTL = v
		}
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v, ok := envInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		c.SMTP.From = v
	}
	// Salvaguarda prod: jamás TLS deshabilitado con skip-verify
	if strings.EqualFold(c.App.Env, "prod") {
		c.SMTP.InsecureSkipVerify = false
	}
}

func (c *Config) validate() error {
	for name, s := range map[string]string{
		"server.read_timeout":      c.Server.ReadTimeout,
		"server.write_timeout":     c.Server.WriteTimeout,
		"cache.memory.default_ttl": c.Cache.Memory.DefaultTTL,
		"jwt.access_ttl":           c.JWT.AccessTTL,
		"otp.ttl":                  c.OTP.TTL,
		"rate.login.window":        c.Rate.Login.Window,
		"rate.send_code.window":    c.Rate.SendCode.Window,
	} {
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return fmt.Errorf("config: storage.postgres.conn_max_lifetime: %w", err)
		}
	}
	if c.OTP.Digits < 4 || c.OTP.Digits > 10 {
		return fmt.Errorf("config: otp.digits must be between 4 and 10, got %d", c.OTP.Digits)
	}
	return nil
}

// OTPTTL retorna el TTL parseado. Solo válido luego de Load/Default.
func (c *Config) OTPTTL() time.Duration {
	d, _ := time.ParseDuration(c.OTP.TTL)
	return d
}

// AccessTTL retorna el TTL del access token parseado.
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTTL)
	return d
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
