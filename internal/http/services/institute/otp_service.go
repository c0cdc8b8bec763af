package institute

import (
	"context"
	"time"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	"github.com/dropDatabas3/edunexus/internal/email"
	dto "github.com/dropDatabas3/edunexus/internal/http/dto/institute"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
	"github.com/dropDatabas3/edunexus/internal/security/otp"
)

// OTPService maneja el ciclo de vida del código de verificación de email:
// emitir, reenviar y verificar. Solo el hash del código toca el storage.
type OTPService struct {
	Repo   repository.InstituteRepository
	Mailer *email.VerificationMailer
	Params otp.Params

	// Now permite congelar el reloj en tests.
	Now func() time.Time
}

func NewOTPService(repo repository.InstituteRepository, mailer *email.VerificationMailer, p otp.Params) *OTPService {
	return &OTPService{Repo: repo, Mailer: mailer, Params: p, Now: time.Now}
}

// issue genera un código nuevo, lo persiste (pisando el anterior: hay a lo
// sumo un código activo por cuenta) y lo envía por email.
//
// Si el envío falla, el código persistido QUEDA: la cuenta puede pedir un
// reenvío sin re-registrarse. En ese caso devuelve Delivery.
func (s *OTPService) issue(ctx context.Context, inst *repository.Institute) (time.Time, error) {
	code, err := otp.Generate(s.Params)
	if err != nil {
		return time.Time{}, apperrors.Internal("otp generate: " + err.Error())
	}
	hash, err := otp.Hash(s.Params, code)
	if err != nil {
		return time.Time{}, apperrors.Internal("otp hash: " + err.Error())
	}
	expiry := otp.ExpiryFrom(s.Params, s.Now())

	if err := s.Repo.SetVerifyCode(ctx, inst.ID, hash, expiry); err != nil {
		return time.Time{}, apperrors.Persistence("set verify code: " + err.Error())
	}

	if err := s.Mailer.SendVerifyCode(inst.Email, inst.OwnerName, inst.InstituteName, code, s.Params.TTL); err != nil {
		logger.From(ctx).Warn("verification email failed, code kept for resend",
			logger.Component("otp"), logger.Email(inst.Email), logger.Err(err))
		return expiry, apperrors.Delivery()
	}
	return expiry, nil
}

// SendCode (re)emite el código para una cuenta sin verificar. La cuenta se
// busca por email, institute_code o id.
func (s *OTPService) SendCode(ctx context.Context, req dto.SendCodeRequest) (*dto.SendCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	inst, err := s.Repo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("No existe una cuenta para ese identificador")
		}
		return nil, apperrors.Persistence("get by identifier: " + err.Error())
	}
	if inst.IsVerified {
		return nil, apperrors.Conflict("La cuenta ya está verificada")
	}

	expiry, err := s.issue(ctx, inst)
	if err != nil {
		return nil, err
	}
	return &dto.SendCodeResponse{EmailSent: true, ExpiresAt: expiry}, nil
}

// VerifyCode valida el código recibido. Es idempotente: verificar una cuenta
// ya verificada es éxito, sin importar el código enviado.
func (s *OTPService) VerifyCode(ctx context.Context, req dto.VerifyCodeRequest) (*dto.VerifyCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	inst, err := s.Repo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("No existe una cuenta para ese identificador")
		}
		return nil, apperrors.Persistence("get by identifier: " + err.Error())
	}

	if inst.IsVerified {
		return &dto.VerifyCodeResponse{Verified: true, AlreadyVerified: true}, nil
	}
	if inst.VerifyCodeHash == nil || inst.VerifyCodeExpiry == nil {
		return nil, apperrors.NoActiveCode()
	}
	// el código vale HASTA el instante exacto de expiry inclusive
	if s.Now().After(*inst.VerifyCodeExpiry) {
		return nil, apperrors.CodeExpired()
	}
	if !otp.Compare(req.Code, *inst.VerifyCodeHash) {
		return nil, apperrors.CodeMismatch()
	}

	if err := s.Repo.MarkVerified(ctx, inst.ID); err != nil {
		return nil, apperrors.Persistence("mark verified: " + err.Error())
	}
	logger.From(ctx).Info("institute verified",
		logger.Component("otp"), logger.InstituteID(inst.ID), logger.Email(inst.Email))
	return &dto.VerifyCodeResponse{Verified: true}, nil
}
