package institute

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dropDatabas3/edunexus/internal/cache"
	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	dto "github.com/dropDatabas3/edunexus/internal/http/dto/institute"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

// directoryTTL: las lecturas del directorio toleran datos de hasta 2 minutos.
const directoryTTL = 2 * time.Minute

// DirectoryService resuelve lecturas y updates del directorio de institutos.
// Las lecturas por identificador pasan por cache.
type DirectoryService struct {
	Repo  repository.InstituteRepository
	Cache cache.Client
}

func NewDirectoryService(repo repository.InstituteRepository, c cache.Client) *DirectoryService {
	return &DirectoryService{Repo: repo, Cache: c}
}

func viewOf(in *repository.Institute) dto.View {
	return dto.View{
		ID:            in.ID,
		OwnerName:     in.OwnerName,
		Email:         in.Email,
		InstituteName: in.InstituteName,
		InstituteCode: in.InstituteCode,
		IsVerified:    in.IsVerified,
		Status:        in.Status,
		LastLogin:     in.LastLogin,
		CreatedAt:     in.CreatedAt,
	}
}

func cacheKey(identifier string) string {
	return "inst:" + strings.ToLower(strings.TrimSpace(identifier))
}

// Get busca un instituto por email, institute_code o id.
func (s *DirectoryService) Get(ctx context.Context, identifier string) (*dto.View, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier es requerido")
	}

	if b, err := s.Cache.Get(ctx, cacheKey(identifier)); err == nil {
		var v dto.View
		if json.Unmarshal(b, &v) == nil {
			return &v, nil
		}
		// entrada corrupta: se pisa en el próximo Set
	}

	inst, err := s.Repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("Instituto no encontrado")
		}
		return nil, apperrors.Persistence("get by identifier: " + err.Error())
	}

	v := viewOf(inst)
	if b, err := json.Marshal(v); err == nil {
		if err := s.Cache.Set(ctx, cacheKey(identifier), b, directoryTTL); err != nil {
			logger.From(ctx).Debug("directory cache set failed",
				logger.Component("directory"), logger.Err(err))
		}
	}
	return &v, nil
}

// Update modifica los datos públicos e invalida las entradas de cache que
// conocemos para la cuenta (código, email e id).
func (s *DirectoryService) Update(ctx context.Context, req dto.UpdateRequest) (*dto.View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	inst, err := s.Repo.UpdateInformation(ctx, req.InstituteCode, req.Info)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, apperrors.NotFound("Instituto no encontrado")
		case err == repository.ErrInvalidInput:
			return nil, apperrors.Validation("info no contiene campos editables")
		}
		return nil, apperrors.Persistence("update information: " + err.Error())
	}

	for _, k := range []string{inst.InstituteCode, inst.Email, inst.ID} {
		_ = s.Cache.Delete(ctx, cacheKey(k))
	}
	v := viewOf(inst)
	return &v, nil
}

// CheckEmail responde si ya existe una cuenta con ese email. Siempre pega a
// la DB: el resultado alimenta decisiones de registro y no admite staleness.
func (s *DirectoryService) CheckEmail(ctx context.Context, mail string) (*dto.CheckEmailResponse, error) {
	mail = strings.ToLower(strings.TrimSpace(mail))
	if mail == "" || !strings.Contains(mail, "@") {
		return nil, apperrors.Validation("email inválido")
	}
	inst, err := s.Repo.GetByEmail(ctx, mail)
	if err != nil {
		if repository.IsNotFound(err) {
			return &dto.CheckEmailResponse{Exists: false}, nil
		}
		return nil, apperrors.Persistence("get by email: " + err.Error())
	}
	return &dto.CheckEmailResponse{Exists: true, Verified: inst.IsVerified}, nil
}
