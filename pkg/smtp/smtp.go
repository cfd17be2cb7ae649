package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"
)

const defaultHost = "smtp.gmail.com"

type ItfSmtp interface {
	NotifyAgent(agentEmail, subject, body string) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
	host string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = defaultHost
	}
	auth := smtpPkg.PlainAuth("", mail, password, host)

	return &smtp{auth: auth, mail: mail, host: host}
}

func (s *smtp) NotifyAgent(agentEmail, subject, body string) error {
	if agentEmail == "" {
		return fmt.Errorf("agent has no email address")
	}

	to := []string{agentEmail}
	message := buildMessage(s.mail, agentEmail, subject, body)

	err := smtpPkg.SendMail(s.host+":587", s.auth, s.mail, to, message)
	if err != nil {
		return err
	}

	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	subject = strings.NewReplacer("\r", " ", "\n", " ").Replace(subject)
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body))
}
