package institute

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/edunexus/internal/http/dto/institute"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	instsvc "github.com/dropDatabas3/edunexus/internal/http/services/institute"
)

// Controller expone el alta, la verificación y el directorio de institutos.
type Controller struct {
	Register  *instsvc.RegisterService
	OTP       *instsvc.OTPService
	Directory *instsvc.DirectoryService
}

func NewController(reg *instsvc.RegisterService, otp *instsvc.OTPService, dir *instsvc.DirectoryService) *Controller {
	return &Controller{Register: reg, OTP: otp, Directory: dir}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Validation("body JSON inválido")
	}
	return nil
}

// HandleRegister — POST /v1/institutes
func (c *Controller) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}
	resp, err := c.Register.Register(r.Context(), req)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusCreated, resp)
}

// HandleSendCode — POST /v1/institutes/send-code
func (c *Controller) HandleSendCode(w http.ResponseWriter, r *http.Request) {
	var req dto.SendCodeRequest
	if err := decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}
	resp, err := c.OTP.SendCode(r.Context(), req)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, resp)
}

// HandleVerifyCode — POST /v1/institutes/verify-code
func (c *Controller) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyCodeRequest
	if err := decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}
	resp, err := c.OTP.VerifyCode(r.Context(), req)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, resp)
}

// HandleCheckEmail — GET /v1/institutes/check-email?email=...
func (c *Controller) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	resp, err := c.Directory.CheckEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet — GET /v1/institutes/{identifier}
func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	resp, err := c.Directory.Get(r.Context(), identifier)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, resp)
}

// HandleUpdate — PUT /v1/institutes
func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRequest
	if err := decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}
	resp, err := c.Directory.Update(r.Context(), req)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, resp)
}
