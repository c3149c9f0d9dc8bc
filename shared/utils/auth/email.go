package utils

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"text/template"

	"motri-backend/shared/config"
)

// EmailService sends mail through the configured SMTP relay.
type EmailService struct {
	config *config.Config
}

func NewEmailService() *EmailService {
	return &EmailService{
		config: config.GetConfig(),
	}
}

type EmailData struct {
	To      string
	Subject string
	Body    string
}

// SendEmail delivers a single plain-text message. Failures surface to the
// caller; there is no queue or retry.
func (e *EmailService) SendEmail(emailData EmailData) error {
	addr := fmt.Sprintf("%s:%s", e.config.SMTPHost, e.config.SMTPPort)

	var client *smtp.Client
	var err error

	if e.config.SMTPPort == "465" {
		tlsConfig := &tls.Config{
			ServerName: e.config.SMTPHost,
		}
		conn, dialErr := tls.Dial("tcp", addr, tlsConfig)
		if dialErr != nil {
			return dialErr
		}
		client, err = smtp.NewClient(conn, e.config.SMTPHost)
		if err != nil {
			return err
		}
	} else {
		client, err = smtp.Dial(addr)
		if err != nil {
			return err
		}
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsConfig := &tls.Config{ServerName: e.config.SMTPHost}
			if err = client.StartTLS(tlsConfig); err != nil {
				return err
			}
		}
	}
	defer client.Close()

	if e.config.SMTPUsername != "" {
		auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)
		if err = client.Auth(auth); err != nil {
			return err
		}
	}

	if err = client.Mail(e.config.EmailFrom); err != nil {
		return err
	}
	if err = client.Rcpt(emailData.To); err != nil {
		return err
	}

	message := fmt.Sprintf("To: %s\r\n"+
		"From: %s <%s>\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n",
		emailData.To,
		e.config.EmailFromName,
		e.config.EmailFrom,
		emailData.Subject,
		emailData.Body)

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}

	client.Quit()

	return nil
}

const passwordResetTemplate = `Hi {{.Username}},

You requested a password reset for your director account.
Click the link below to choose a new password:

{{.ResetURL}}

This link will expire in 1 hour. If you didn't request this, please ignore this email.
`

// SendPasswordResetEmail mails the one-time reset link. The plaintext token
// appears only in this message; the server keeps a hash.
func (e *EmailService) SendPasswordResetEmail(toEmail, username, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", e.config.FrontendURL, resetToken)

	tmpl, err := template.New("password_reset").Parse(passwordResetTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse password reset template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, struct {
		Username string
		ResetURL string
	}{
		Username: username,
		ResetURL: resetURL,
	}); err != nil {
		return fmt.Errorf("failed to execute password reset template: %w", err)
	}

	return e.SendEmail(EmailData{
		To:      toEmail,
		Subject: "Password Reset Request",
		Body:    body.String(),
	})
}
