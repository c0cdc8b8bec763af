package institute

import (
	"context"
	"time"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	dto "github.com/dropDatabas3/edunexus/internal/http/dto/institute"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
	"github.com/dropDatabas3/edunexus/internal/security/otp"
	"github.com/dropDatabas3/edunexus/internal/security/password"
	"github.com/dropDatabas3/edunexus/internal/tenantcode"
)

// RegisterService orquesta el alta de institutos. El registro queda
// pendiente de verificación hasta que la cuenta confirme el OTP.
type RegisterService struct {
	Repo  repository.InstituteRepository
	Codes *tenantcode.Generator
	OTP   *OTPService
}

func NewRegisterService(repo repository.InstituteRepository, codes *tenantcode.Generator, otpSvc *OTPService) *RegisterService {
	return &RegisterService{Repo: repo, Codes: codes, OTP: otpSvc}
}

// Register crea la cuenta o, si ya existe sin verificar, la re-toma: los
// datos del último submit pisan los anteriores, el id y el institute_code
// originales se conservan, y se emite un código nuevo.
//
// Si el email con el código no se pudo enviar, la cuenta igual queda
// persistida con su código vigente y la respuesta lo marca con
// email_sent=false: el cliente puede pedir un reenvío por /send-code.
func (s *RegisterService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := logger.From(ctx).With(logger.Component("register"), logger.Email(req.Email))

	pwHash, err := password.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("hash password: " + err.Error())
	}

	existing, err := s.Repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, apperrors.Conflict("Ya existe una cuenta verificada con ese email")

	case err == nil:
		// re-registro de una cuenta pendiente: last-submitted-wins
		return s.resume(ctx, existing, req, pwHash)

	case !repository.IsNotFound(err):
		return nil, apperrors.Persistence("get by email: " + err.Error())
	}

	code, err := otpIssueMaterial(s.OTP)
	if err != nil {
		return nil, err
	}
	instCode := s.Codes.Next(ctx, req.InstituteName)

	created, err := s.Repo.Create(ctx, repository.CreateInstituteInput{
		OwnerName:        req.OwnerName,
		Email:            req.Email,
		PasswordHash:     pwHash,
		InstituteName:    req.InstituteName,
		InstituteCode:    instCode,
		VerifyCodeHash:   code.hash,
		VerifyCodeExpiry: code.expiry,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, apperrors.Conflict("Ya existe una cuenta con ese email o código")
		}
		return nil, apperrors.Persistence("create institute: " + err.Error())
	}
	log.Info("institute registered", logger.InstituteID(created.ID), logger.InstituteCode(instCode))

	return s.respondWithEmail(ctx, created, code.plain)
}

// resume re-emite el registro pendiente con los datos nuevos.
func (s *RegisterService) resume(ctx context.Context, existing *repository.Institute, req dto.RegisterRequest, pwHash string) (*dto.RegisterResponse, error) {
	code, err := otpIssueMaterial(s.OTP)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateRegistration(ctx, existing.ID, req.OwnerName, req.InstituteName, pwHash, code.hash, code.expiry); err != nil {
		return nil, apperrors.Persistence("update registration: " + err.Error())
	}
	logger.From(ctx).Info("pending registration resumed",
		logger.Component("register"), logger.InstituteID(existing.ID))

	updated := *existing
	updated.OwnerName = req.OwnerName
	updated.InstituteName = req.InstituteName
	return s.respondWithEmail(ctx, &updated, code.plain)
}

func (s *RegisterService) respondWithEmail(ctx context.Context, inst *repository.Institute, plainCode string) (*dto.RegisterResponse, error) {
	resp := &dto.RegisterResponse{
		ID:            inst.ID,
		Email:         inst.Email,
		InstituteCode: inst.InstituteCode,
		EmailSent:     true,
		Message:       "Registro creado. Revisá tu email para verificar la cuenta.",
	}
	if err := s.OTP.Mailer.SendVerifyCode(inst.Email, inst.OwnerName, inst.InstituteName, plainCode, s.OTP.Params.TTL); err != nil {
		logger.From(ctx).Warn("verification email failed, code kept for resend",
			logger.Component("register"), logger.Email(inst.Email), logger.Err(err))
		resp.EmailSent = false
		resp.Message = "Registro creado, pero el email de verificación falló. Pedí un reenvío."
	}
	return resp, nil
}

// codeMaterial agrupa el código en claro (solo para el email) y lo que
// efectivamente se persiste.
type codeMaterial struct {
	plain  string
	hash   string
	expiry time.Time
}

func otpIssueMaterial(s *OTPService) (codeMaterial, error) {
	code, err := otp.Generate(s.Params)
	if err != nil {
		return codeMaterial{}, apperrors.Internal("otp generate: " + err.Error())
	}
	hash, err := otp.Hash(s.Params, code)
	if err != nil {
		return codeMaterial{}, apperrors.Internal("otp hash: " + err.Error())
	}
	return codeMaterial{plain: code, hash: hash, expiry: otp.ExpiryFrom(s.Params, s.Now())}, nil
}
