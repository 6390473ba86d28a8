package notifier

import (
	"context"
	"fmt"
	"net/smtp"
)

type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
	appName  string
}

func NewSMTPNotifier(host, port, username, password, appName string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		appName:  appName,
	}
}

func (n *SMTPNotifier) SendConfirmationEmail(_ context.Context, email, code string) error {
	subject := fmt.Sprintf("%s - Confirm Your Registration", n.appName)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Thank you for signing up for %s! To complete your registration, please use the confirmation code below:\n\n"+
			"Confirmation Code: %s\n\n"+
			"If you did not request this email, please ignore it.\n\n"+
			"Best regards,\nThe %s Team",
		n.appName, code, n.appName)

	return n.send(email, subject, body)
}

func (n *SMTPNotifier) SendRecoveryEmail(_ context.Context, email, code string) error {
	subject := fmt.Sprintf("%s - Password Recovery", n.appName)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"A password recovery was requested for your %s account. Use the code below to set a new password:\n\n"+
			"Recovery Code: %s\n\n"+
			"If you did not request a password recovery, you can safely ignore this email.\n\n"+
			"Best regards,\nThe %s Team",
		n.appName, code, n.appName)

	return n.send(email, subject, body)
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	mime := "MIME-version: 1.0;\nContent-Type: text/plain; charset=\"UTF-8\";\n\n"
	message := []byte(fmt.Sprintf("Subject: %s\n%s%s", subject, mime, body))

	auth := smtp.PlainAuth("", n.username, n.password, n.host)

	return smtp.SendMail(n.host+":"+n.port, auth, n.username, []string{to}, message)
}
