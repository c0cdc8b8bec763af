package institute

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	"github.com/dropDatabas3/edunexus/internal/email"
)

// fakeRepo es un InstituteRepository en memoria para los tests de servicio.
type fakeRepo struct {
	rows map[string]*repository.Institute // por id

	maxSuffix    int
	maxSuffixErr error
	setCodeErr   error
	createErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*repository.Institute)}
}

func (f *fakeRepo) seed(in *repository.Institute) *repository.Institute {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = repository.StatusActive
	}
	f.rows[in.ID] = in
	return in
}

func (f *fakeRepo) GetByEmail(_ context.Context, mail string) (*repository.Institute, error) {
	for _, in := range f.rows {
		if strings.EqualFold(in.Email, mail) {
			cp := *in
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) GetByIdentifier(_ context.Context, identifier string) (*repository.Institute, error) {
	for _, in := range f.rows {
		if strings.EqualFold(in.Email, identifier) ||
			strings.EqualFold(in.InstituteCode, identifier) ||
			in.ID == identifier {
			cp := *in
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, in repository.CreateInstituteInput) (*repository.Institute, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, ex := range f.rows {
		if strings.EqualFold(ex.Email, in.Email) || strings.EqualFold(ex.InstituteCode, in.InstituteCode) {
			return nil, repository.ErrConflict
		}
	}
	hash := in.VerifyCodeHash
	expiry := in.VerifyCodeExpiry
	now := time.Now()
	inst := f.seed(&repository.Institute{
		OwnerName:        in.OwnerName,
		Email:            strings.ToLower(in.Email),
		PasswordHash:     in.PasswordHash,
		InstituteName:    in.InstituteName,
		InstituteCode:    in.InstituteCode,
		VerifyCodeHash:   &hash,
		VerifyCodeExpiry: &expiry,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	cp := *inst
	return &cp, nil
}

func (f *fakeRepo) UpdateRegistration(_ context.Context, id, ownerName, instituteName, passwordHash, codeHash string, codeExpiry time.Time) error {
	in, ok := f.rows[id]
	if !ok || in.IsVerified {
		return repository.ErrNotFound
	}
	in.OwnerName = ownerName
	in.InstituteName = instituteName
	in.PasswordHash = passwordHash
	in.VerifyCodeHash = &codeHash
	in.VerifyCodeExpiry = &codeExpiry
	return nil
}

func (f *fakeRepo) SetVerifyCode(_ context.Context, id, codeHash string, codeExpiry time.Time) error {
	if f.setCodeErr != nil {
		return f.setCodeErr
	}
	in, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	in.VerifyCodeHash = &codeHash
	in.VerifyCodeExpiry = &codeExpiry
	return nil
}

func (f *fakeRepo) MarkVerified(_ context.Context, id string) error {
	in, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	in.IsVerified = true
	in.VerifyCodeHash = nil
	in.VerifyCodeExpiry = nil
	return nil
}

func (f *fakeRepo) UpdateInformation(_ context.Context, instituteCode string, info map[string]any) (*repository.Institute, error) {
	for _, in := range f.rows {
		if strings.EqualFold(in.InstituteCode, instituteCode) {
			if v, ok := info["owner_name"].(string); ok {
				in.OwnerName = v
			}
			if v, ok := info["institute_name"].(string); ok {
				in.InstituteName = v
			}
			if v, ok := info["status"].(string); ok {
				in.Status = v
			}
			cp := *in
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	in, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	in.LastLogin = &at
	return nil
}

func (f *fakeRepo) MaxCodeSuffix(_ context.Context, _ string) (int, error) {
	return f.maxSuffix, f.maxSuffixErr
}

// fakeSender captura los envíos; con err simula el SMTP caído.
type fakeSender struct {
	sent []string // bodies de texto
	to   []string
	err  error
}

func (f *fakeSender) Send(to, _, _, text string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, text)
	return nil
}

var errSMTPDown = errors.New("smtp down")

func newTestMailer(fs *fakeSender) *email.VerificationMailer {
	return email.NewVerificationMailer(fs, "EduNexus")
}
