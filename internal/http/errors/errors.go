package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

type errorBody struct {
	Error *AppError `json:"error"`
}

// Write serializa el AppError con su status. Errores no tipados se degradan
// a internal_error sin filtrar el detalle al cliente.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var app *AppError
	if !stderrors.As(err, &app) {
		app = Internal(err.Error())
	}

	if app.HTTPStatus >= 500 {
		logger.From(r.Context()).Error("request failed",
			logger.Path(r.URL.Path),
			logger.Any("code", string(app.Code)),
			logger.Any("detail", app.Detail),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(app.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorBody{Error: app})
}

// WriteJSON responde 2xx con body JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
