package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar para mantener nombres consistentes en todos los logs.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

func InstituteID(v string) zap.Field   { return zap.String("institute_id", v) }
func InstituteCode(v string) zap.Field { return zap.String("institute_code", v) }
func UserID(v string) zap.Field        { return zap.String("user_id", v) }
func Email(v string) zap.Field         { return zap.String("email", v) }
func Role(v string) zap.Field          { return zap.String("role", v) }

// Component identifica el módulo que emite el log (ej: "institute.otp").
func Component(v string) zap.Field { return zap.String("component", v) }

// Op identifica la operación actual (ej: "VerifyCode").
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer identifica la capa: controller, service, repository.
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field       { return zap.Error(err) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
func Dur(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func Expiry(v time.Time) zap.Field  { return zap.Time("expiry", v) }
