package email

import (
	"fmt"
	"time"
)

// VerificationMailer compone y envía el email con el código de verificación.
// El código viaja en claro por email; en el storage sólo vive el hash.
type VerificationMailer struct {
	Sender  Sender
	AppName string
}

func NewVerificationMailer(s Sender, appName string) *VerificationMailer {
	if appName == "" {
		appName = "EduNexus"
	}
	return &VerificationMailer{Sender: s, AppName: appName}
}

// SendVerifyCode envía el OTP de registro. ttl se redondea a minutos para
// el texto del email ("valid for N minutes").
func (vm *VerificationMailer) SendVerifyCode(to, ownerName, instituteName, code string, ttl time.Duration) error {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	html, text, err := RenderVerifyCode(VerifyCodeData{
		AppName:       vm.AppName,
		OwnerName:     ownerName,
		InstituteName: instituteName,
		Code:          code,
		Minutes:       minutes,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s is your %s verification code", code, vm.AppName)
	return vm.Sender.Send(to, subject, html, text)
}
