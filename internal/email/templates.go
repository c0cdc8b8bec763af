package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// VerifyCodeData alimenta las plantillas de verificación de email.
type VerifyCodeData struct {
	AppName       string
	OwnerName     string
	InstituteName string
	Code          string
	Minutes       int
}

var (
	verifyHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/verify_code.html"))
	verifyText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/verify_code.txt"))
)

// RenderVerifyCode renderiza el cuerpo html y texto plano del email de OTP.
func RenderVerifyCode(data VerifyCodeData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err := verifyHTML.ExecuteTemplate(&hb, "verify_code.html", data); err != nil {
		return "", "", fmt.Errorf("render verify_code.html: %w", err)
	}
	if err := verifyText.ExecuteTemplate(&tb, "verify_code.txt", data); err != nil {
		return "", "", fmt.Errorf("render verify_code.txt: %w", err)
	}
	return hb.String(), tb.String(), nil
}
