package institute

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	dto "github.com/dropDatabas3/edunexus/internal/http/dto/institute"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/security/otp"
	"github.com/dropDatabas3/edunexus/internal/security/password"
	"github.com/dropDatabas3/edunexus/internal/tenantcode"
)

func newRegisterFixture(t *testing.T) (*RegisterService, *fakeRepo, *fakeSender) {
	t.Helper()
	repo := newFakeRepo()
	fs := &fakeSender{}
	otpSvc := NewOTPService(repo, newTestMailer(fs), otp.Params{Digits: 6, BcryptCost: 4, TTL: 600 * time.Second})
	svc := NewRegisterService(repo, tenantcode.NewGenerator(repo), otpSvc)
	return svc, repo, fs
}

func registerReq() dto.RegisterRequest {
	return dto.RegisterRequest{
		OwnerName:     "Ana",
		Email:         "Ana@Example.com",
		Password:      "supersecreta",
		InstituteName: "Greenfield High",
	}
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	svc, repo, fs := newRegisterFixture(t)

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	require.True(t, resp.EmailSent)
	require.Equal(t, "ana@example.com", resp.Email)
	require.Equal(t, "GH0001", resp.InstituteCode)

	stored := repo.rows[resp.ID]
	require.NotNil(t, stored)
	require.False(t, stored.IsVerified)
	require.NotEqual(t, "supersecreta", stored.PasswordHash)
	require.True(t, password.Verify("supersecreta", stored.PasswordHash))

	// el código del email verifica contra el hash persistido
	require.True(t, otp.Compare(lastCode(t, fs), *stored.VerifyCodeHash))
}

func TestRegisterVerifiedEmailConflicts(t *testing.T) {
	svc, repo, _ := newRegisterFixture(t)
	inst := seedPending(repo)
	repo.rows[inst.ID].IsVerified = true

	req := registerReq()
	req.Email = "ana@example.com"
	_, err := svc.Register(context.Background(), req)
	require.Equal(t, apperrors.CodeConflict, appCode(t, err))
}

func TestRegisterResumesPendingAccount(t *testing.T) {
	svc, repo, fs := newRegisterFixture(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	// mismo email sin verificar: el último submit pisa los datos
	again := registerReq()
	again.OwnerName = "Ana María"
	again.Password = "otraclave123"
	second, err := svc.Register(ctx, again)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.InstituteCode, second.InstituteCode)

	stored := repo.rows[first.ID]
	require.Equal(t, "Ana María", stored.OwnerName)
	require.True(t, password.Verify("otraclave123", stored.PasswordHash))
	require.True(t, otp.Compare(lastCode(t, fs), *stored.VerifyCodeHash))
}

func TestRegisterDeliveryFailureStillPersists(t *testing.T) {
	svc, repo, fs := newRegisterFixture(t)
	fs.err = errSMTPDown

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	require.False(t, resp.EmailSent)

	stored := repo.rows[resp.ID]
	require.NotNil(t, stored)
	require.NotNil(t, stored.VerifyCodeHash, "el código queda para reenvío")
}

func TestRegisterCodeSuffixIncrements(t *testing.T) {
	svc, repo, _ := newRegisterFixture(t)
	repo.maxSuffix = 41

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	require.Equal(t, "GH0042", resp.InstituteCode)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newRegisterFixture(t)
	ctx := context.Background()

	for name, mut := range map[string]func(*dto.RegisterRequest){
		"owner vacío":    func(r *dto.RegisterRequest) { r.OwnerName = "" },
		"email inválido": func(r *dto.RegisterRequest) { r.Email = "sin-arroba" },
		"password corta": func(r *dto.RegisterRequest) { r.Password = "corta" },
		"nombre vacío":   func(r *dto.RegisterRequest) { r.InstituteName = "  " },
	} {
		req := registerReq()
		mut(&req)
		_, err := svc.Register(ctx, req)
		require.Equal(t, apperrors.CodeValidation, appCode(t, err), name)
	}
}

func TestRegisterStoreConflictOnCreate(t *testing.T) {
	svc, repo, _ := newRegisterFixture(t)
	repo.createErr = repository.ErrConflict

	_, err := svc.Register(context.Background(), registerReq())
	require.Equal(t, apperrors.CodeConflict, appCode(t, err))
}
