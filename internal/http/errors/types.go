package errors

import "net/http"

// Code identifica la clase de error de cara al cliente.
type Code string

const (
	CodeValidation     Code = "validation_error"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeNoActiveCode   Code = "no_active_code"
	CodeCodeExpired    Code = "code_expired"
	CodeCodeMismatch   Code = "code_mismatch"
	CodeDelivery       Code = "delivery_failure"
	CodePersistence    Code = "persistence_failure"
	CodeRateLimited    Code = "rate_limited"
	CodeInternal       Code = "internal_error"
	CodeNotImplemented Code = "not_implemented"
)

// AppError es el error que cruza la frontera HTTP. Message es apto para el
// cliente; Detail es interno y solo va a los logs.
type AppError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"-"`
	HTTPStatus int    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return string(e.Code) + ": " + e.Detail
	}
	return string(e.Code) + ": " + e.Message
}

// WithDetail agrega contexto interno sin tocar el mensaje del cliente.
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

func newErr(code Code, status int, msg string) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: status}
}

func Validation(msg string) *AppError {
	if msg == "" {
		msg = "Datos de entrada inválidos"
	}
	return newErr(CodeValidation, http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	if msg == "" {
		msg = "Recurso no encontrado"
	}
	return newErr(CodeNotFound, http.StatusNotFound, msg)
}

func Conflict(msg string) *AppError {
	if msg == "" {
		msg = "El recurso ya existe"
	}
	return newErr(CodeConflict, http.StatusConflict, msg)
}

func Unauthorized(msg string) *AppError {
	if msg == "" {
		msg = "Credenciales inválidas"
	}
	return newErr(CodeUnauthorized, http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	if msg == "" {
		msg = "Acceso denegado"
	}
	return newErr(CodeForbidden, http.StatusForbidden, msg)
}

// NoActiveCode: se intentó verificar sin un código vigente emitido.
func NoActiveCode() *AppError {
	return newErr(CodeNoActiveCode, http.StatusBadRequest, "No hay un código de verificación activo")
}

// CodeExpired: el código existía pero ya venció.
func CodeExpired() *AppError {
	return newErr(CodeCodeExpired, http.StatusBadRequest, "El código de verificación expiró")
}

// CodeMismatch: el código enviado no coincide con el emitido.
func CodeMismatch() *AppError {
	return newErr(CodeCodeMismatch, http.StatusBadRequest, "Código de verificación incorrecto")
}

// Delivery: el email con el código no pudo enviarse. El código queda
// persistido, el cliente puede pedir un reenvío.
func Delivery() *AppError {
	return newErr(CodeDelivery, http.StatusBadGateway, "No se pudo enviar el email de verificación")
}

func Persistence(detail string) *AppError {
	e := newErr(CodePersistence, http.StatusInternalServerError, "Error interno de almacenamiento")
	e.Detail = detail
	return e
}

func RateLimited() *AppError {
	return newErr(CodeRateLimited, http.StatusTooManyRequests, "Demasiados intentos, probá más tarde")
}

func Internal(detail string) *AppError {
	e := newErr(CodeInternal, http.StatusInternalServerError, "Error interno")
	e.Detail = detail
	return e
}
