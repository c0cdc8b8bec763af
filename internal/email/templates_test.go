package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderVerifyCode(t *testing.T) {
	html, text, err := RenderVerifyCode(VerifyCodeData{
		AppName:       "EduNexus",
		OwnerName:     "Ana",
		InstituteName: "Greenfield High",
		Code:          "482913",
		Minutes:       10,
	})
	require.NoError(t, err)

	for _, body := range []string{html, text} {
		require.Contains(t, body, "482913")
		require.Contains(t, body, "Ana")
		require.Contains(t, body, "Greenfield High")
		require.Contains(t, body, "10 minutes")
	}
}

func TestRenderVerifyCodeEscapesHTML(t *testing.T) {
	html, _, err := RenderVerifyCode(VerifyCodeData{
		AppName:       "EduNexus",
		OwnerName:     "<script>alert(1)</script>",
		InstituteName: "X",
		Code:          "000000",
		Minutes:       1,
	})
	require.NoError(t, err)
	require.NotContains(t, html, "<script>alert(1)</script>")
}

type fakeSender struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeSender) Send(to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

func TestVerificationMailerSendsBothBodies(t *testing.T) {
	fs := &fakeSender{}
	vm := NewVerificationMailer(fs, "EduNexus")

	err := vm.SendVerifyCode("ana@example.com", "Ana", "Greenfield High", "482913", 600*time.Second)
	require.NoError(t, err)

	require.Equal(t, "ana@example.com", fs.to)
	require.Contains(t, fs.subject, "482913")
	require.Contains(t, fs.html, "482913")
	require.Contains(t, fs.text, "482913")
	require.Contains(t, fs.text, "10 minutes")
}

func TestVerificationMailerMinimumOneMinute(t *testing.T) {
	fs := &fakeSender{}
	vm := NewVerificationMailer(fs, "EduNexus")

	require.NoError(t, vm.SendVerifyCode("a@b.c", "A", "X", "000000", 10*time.Second))
	require.Contains(t, fs.text, "1 minutes")
}
