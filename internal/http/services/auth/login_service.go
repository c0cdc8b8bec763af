package auth

import (
	"context"
	"time"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	dto "github.com/dropDatabas3/edunexus/internal/http/dto/auth"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/infra/tenantsql"
	"github.com/dropDatabas3/edunexus/internal/jwt"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
	"github.com/dropDatabas3/edunexus/internal/security/password"
	"github.com/dropDatabas3/edunexus/internal/store/pg"
)

// RequestMeta acompaña al login para el registro de actividad.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// LoginService autentica los tres roles y emite el token de sesión.
// Institutos viven en la base global; alumnos y docentes en la base de su
// instituto, resuelta vía el manager de pools.
type LoginService struct {
	Institutes repository.InstituteRepository
	Activity   repository.ActivityRepository
	Tenants    *tenantsql.Manager
	Issuer     *jwt.Issuer

	Now func() time.Time
}

func NewLoginService(insts repository.InstituteRepository, act repository.ActivityRepository, tenants *tenantsql.Manager, issuer *jwt.Issuer) *LoginService {
	return &LoginService{Institutes: insts, Activity: act, Tenants: tenants, Issuer: issuer, Now: time.Now}
}

func (s *LoginService) Login(ctx context.Context, req dto.LoginRequest, meta RequestMeta) (*dto.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	switch req.Role {
	case jwt.RoleInstitute:
		return s.loginInstitute(ctx, req, meta)
	default:
		return s.loginMember(ctx, req, meta)
	}
}

func (s *LoginService) loginInstitute(ctx context.Context, req dto.LoginRequest, meta RequestMeta) (*dto.LoginResponse, error) {
	inst, err := s.Institutes.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			// mismo mensaje que password incorrecto: no filtramos existencia
			return nil, apperrors.Unauthorized("")
		}
		return nil, apperrors.Persistence("get by identifier: " + err.Error())
	}

	if !password.Verify(req.Password, inst.PasswordHash) {
		s.record(ctx, inst.ID, jwt.RoleInstitute, inst.ID, meta, "failed")
		return nil, apperrors.Unauthorized("")
	}
	if !inst.IsVerified {
		return nil, apperrors.Forbidden("La cuenta no está verificada")
	}
	if inst.Status == repository.StatusBlocked || inst.Status == repository.StatusInactive {
		return nil, apperrors.Forbidden("La cuenta está deshabilitada")
	}

	now := s.Now()
	s.record(ctx, inst.ID, jwt.RoleInstitute, inst.ID, meta, "success")
	if err := s.Institutes.TouchLastLogin(ctx, inst.ID, now); err != nil {
		logger.From(ctx).Warn("touch last_login failed",
			logger.Component("login"), logger.InstituteID(inst.ID), logger.Err(err))
	}

	return s.issue(jwt.SessionClaims{
		Sub:         inst.ID,
		Role:        jwt.RoleInstitute,
		Name:        inst.OwnerName,
		InstituteID: inst.ID,
	}, dto.UserView{
		ID:            inst.ID,
		Role:          jwt.RoleInstitute,
		Name:          inst.OwnerName,
		Email:         inst.Email,
		InstituteID:   inst.ID,
		InstituteCode: inst.InstituteCode,
	})
}

func (s *LoginService) loginMember(ctx context.Context, req dto.LoginRequest, meta RequestMeta) (*dto.LoginResponse, error) {
	inst, err := s.Institutes.GetByIdentifier(ctx, req.InstituteCode)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.Unauthorized("")
		}
		return nil, apperrors.Persistence("get institute: " + err.Error())
	}

	pool, err := s.Tenants.Pool(ctx, inst.InstituteCode)
	if err != nil {
		if err == repository.ErrNoDatabase {
			return nil, apperrors.Internal("tenant database not configured")
		}
		return nil, apperrors.Persistence("tenant pool: " + err.Error())
	}
	members := pg.NewMemberRepo(pool)

	var m *repository.Member
	if req.Role == jwt.RoleStudent {
		m, err = members.GetStudent(ctx, req.MemberID)
	} else {
		m, err = members.GetTeacher(ctx, req.MemberID)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.Unauthorized("")
		}
		return nil, apperrors.Persistence("get member: " + err.Error())
	}

	if !password.Verify(req.Password, m.PasswordHash) {
		s.record(ctx, m.ID, req.Role, inst.ID, meta, "failed")
		return nil, apperrors.Unauthorized("")
	}
	if !m.Active {
		return nil, apperrors.Forbidden("La cuenta está deshabilitada")
	}

	now := s.Now()
	s.record(ctx, m.ID, req.Role, inst.ID, meta, "success")
	if req.Role == jwt.RoleStudent {
		err = members.TouchStudentLogin(ctx, m.ID, now)
	} else {
		err = members.TouchTeacherLogin(ctx, m.ID, now)
	}
	if err != nil {
		logger.From(ctx).Warn("touch last_login failed",
			logger.Component("login"), logger.UserID(m.ID), logger.Err(err))
	}

	return s.issue(jwt.SessionClaims{
		Sub:         m.ID,
		Role:        req.Role,
		Name:        m.Name,
		InstituteID: inst.ID,
	}, dto.UserView{
		ID:            m.ID,
		Role:          req.Role,
		Name:          m.Name,
		Email:         m.Email,
		InstituteID:   inst.ID,
		InstituteCode: inst.InstituteCode,
	})
}

func (s *LoginService) issue(claims jwt.SessionClaims, user dto.UserView) (*dto.LoginResponse, error) {
	token, exp, err := s.Issuer.IssueSession(claims)
	if err != nil {
		return nil, apperrors.Internal("sign session: " + err.Error())
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp, User: user}, nil
}

// record persiste el intento; un fallo acá nunca corta el login.
func (s *LoginService) record(ctx context.Context, userID, role, instituteID string, meta RequestMeta, status string) {
	if s.Activity == nil {
		return
	}
	_ = s.Activity.Record(ctx, repository.LoginActivity{
		UserID:      userID,
		Role:        role,
		InstituteID: instituteID,
		IP:          meta.IP,
		UserAgent:   meta.UserAgent,
		Status:      status,
	})
}
