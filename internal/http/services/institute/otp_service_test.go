package institute

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	dto "github.com/dropDatabas3/edunexus/internal/http/dto/institute"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/security/otp"
)

var codeRe = regexp.MustCompile(`\d{6}`)

func newOTPFixture(t *testing.T) (*OTPService, *fakeRepo, *fakeSender) {
	t.Helper()
	repo := newFakeRepo()
	fs := &fakeSender{}
	svc := NewOTPService(repo, newTestMailer(fs), otp.Params{Digits: 6, BcryptCost: 4, TTL: 600 * time.Second})
	return svc, repo, fs
}

func seedPending(repo *fakeRepo) *repository.Institute {
	return repo.seed(&repository.Institute{
		OwnerName:     "Ana",
		Email:         "ana@example.com",
		InstituteName: "Greenfield High",
		InstituteCode: "GH0001",
	})
}

func lastCode(t *testing.T, fs *fakeSender) string {
	t.Helper()
	require.NotEmpty(t, fs.sent)
	code := codeRe.FindString(fs.sent[len(fs.sent)-1])
	require.Len(t, code, 6)
	return code
}

func appCode(t *testing.T, err error) apperrors.Code {
	t.Helper()
	var app *apperrors.AppError
	require.ErrorAs(t, err, &app)
	return app.Code
}

func TestSendCodePersistsHashNotPlaintext(t *testing.T) {
	svc, repo, fs := newOTPFixture(t)
	inst := seedPending(repo)

	resp, err := svc.SendCode(context.Background(), dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.NoError(t, err)
	require.True(t, resp.EmailSent)

	code := lastCode(t, fs)
	stored := repo.rows[inst.ID]
	require.NotNil(t, stored.VerifyCodeHash)
	require.NotEqual(t, code, *stored.VerifyCodeHash)
	require.True(t, otp.Compare(code, *stored.VerifyCodeHash))
}

func TestSendCodeOverwritesPreviousCode(t *testing.T) {
	svc, repo, fs := newOTPFixture(t)
	seedPending(repo)
	ctx := context.Background()

	_, err := svc.SendCode(ctx, dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.NoError(t, err)
	first := lastCode(t, fs)

	_, err = svc.SendCode(ctx, dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.NoError(t, err)
	second := lastCode(t, fs)

	// a lo sumo un código activo: el primero deja de servir
	if first != second {
		_, err = svc.VerifyCode(ctx, dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: first})
		require.Equal(t, apperrors.CodeCodeMismatch, appCode(t, err))
	}
	resp, err := svc.VerifyCode(ctx, dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: second})
	require.NoError(t, err)
	require.True(t, resp.Verified)
}

func TestSendCodeUnknownIdentifier(t *testing.T) {
	svc, _, _ := newOTPFixture(t)
	_, err := svc.SendCode(context.Background(), dto.SendCodeRequest{Identifier: "nadie@example.com"})
	require.Equal(t, apperrors.CodeNotFound, appCode(t, err))
}

func TestSendAndVerifyByAnyIdentifier(t *testing.T) {
	// la cuenta se resuelve por email, institute_code o id
	svc, repo, fs := newOTPFixture(t)
	inst := seedPending(repo)
	ctx := context.Background()

	for _, id := range []string{"ana@example.com", "GH0001", inst.ID} {
		resp, err := svc.SendCode(ctx, dto.SendCodeRequest{Identifier: id})
		require.NoError(t, err, "identifier=%s", id)
		require.True(t, resp.EmailSent)
	}

	vresp, err := svc.VerifyCode(ctx, dto.VerifyCodeRequest{Identifier: "GH0001", Code: lastCode(t, fs)})
	require.NoError(t, err)
	require.True(t, vresp.Verified)
}

func TestSendCodeAlreadyVerified(t *testing.T) {
	svc, repo, _ := newOTPFixture(t)
	inst := seedPending(repo)
	repo.rows[inst.ID].IsVerified = true

	_, err := svc.SendCode(context.Background(), dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.Equal(t, apperrors.CodeConflict, appCode(t, err))
}

func TestSendCodeDeliveryFailureKeepsCode(t *testing.T) {
	svc, repo, fs := newOTPFixture(t)
	inst := seedPending(repo)
	fs.err = errSMTPDown

	_, err := svc.SendCode(context.Background(), dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.Equal(t, apperrors.CodeDelivery, appCode(t, err))

	// el código emitido queda persistido, listo para un reenvío
	stored := repo.rows[inst.ID]
	require.NotNil(t, stored.VerifyCodeHash)
	require.NotNil(t, stored.VerifyCodeExpiry)
}

func TestVerifyCodeHappyPath(t *testing.T) {
	svc, repo, fs := newOTPFixture(t)
	inst := seedPending(repo)
	ctx := context.Background()

	_, err := svc.SendCode(ctx, dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.NoError(t, err)

	resp, err := svc.VerifyCode(ctx, dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: lastCode(t, fs)})
	require.NoError(t, err)
	require.True(t, resp.Verified)
	require.False(t, resp.AlreadyVerified)

	stored := repo.rows[inst.ID]
	require.True(t, stored.IsVerified)
	require.Nil(t, stored.VerifyCodeHash)
	require.Nil(t, stored.VerifyCodeExpiry)
}

func TestVerifyCodeIdempotent(t *testing.T) {
	svc, repo, _ := newOTPFixture(t)
	inst := seedPending(repo)
	repo.rows[inst.ID].IsVerified = true

	// cuenta ya verificada: éxito sin importar el código
	resp, err := svc.VerifyCode(context.Background(), dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: "999999"})
	require.NoError(t, err)
	require.True(t, resp.Verified)
	require.True(t, resp.AlreadyVerified)
}

func TestVerifyCodeNoActiveCode(t *testing.T) {
	svc, repo, _ := newOTPFixture(t)
	seedPending(repo)

	_, err := svc.VerifyCode(context.Background(), dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: "123456"})
	require.Equal(t, apperrors.CodeNoActiveCode, appCode(t, err))
}

func TestVerifyCodeMismatchLeavesUnverified(t *testing.T) {
	svc, repo, fs := newOTPFixture(t)
	inst := seedPending(repo)
	ctx := context.Background()

	_, err := svc.SendCode(ctx, dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.NoError(t, err)

	wrong := "000000"
	if lastCode(t, fs) == wrong {
		wrong = "000001"
	}
	_, err = svc.VerifyCode(ctx, dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: wrong})
	require.Equal(t, apperrors.CodeCodeMismatch, appCode(t, err))
	require.False(t, repo.rows[inst.ID].IsVerified)
}

func TestVerifyCodeExpiryBoundary(t *testing.T) {
	svc, repo, fs := newOTPFixture(t)
	seedPending(repo)
	ctx := context.Background()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return issuedAt }

	_, err := svc.SendCode(ctx, dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.NoError(t, err)
	code := lastCode(t, fs)
	expiry := issuedAt.Add(600 * time.Second)

	// en el instante exacto de expiración el código todavía vale
	svc.Now = func() time.Time { return expiry }
	resp, err := svc.VerifyCode(ctx, dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: code})
	require.NoError(t, err)
	require.True(t, resp.Verified)
}

func TestVerifyCodeExpired(t *testing.T) {
	svc, repo, fs := newOTPFixture(t)
	seedPending(repo)
	ctx := context.Background()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return issuedAt }

	_, err := svc.SendCode(ctx, dto.SendCodeRequest{Identifier: "ana@example.com"})
	require.NoError(t, err)
	code := lastCode(t, fs)

	svc.Now = func() time.Time { return issuedAt.Add(600*time.Second + time.Second) }
	_, err = svc.VerifyCode(ctx, dto.VerifyCodeRequest{Identifier: "ana@example.com", Code: code})
	require.Equal(t, apperrors.CodeCodeExpired, appCode(t, err))
}
