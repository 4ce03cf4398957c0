package mailer

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// Mailer sends one message to one recipient.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTP is the production Mailer backed by net/smtp.
type SMTP struct {
	From     string
	Password string
	Host     string
	Port     string
}

func NewFromEnv() *SMTP {
	m := &SMTP{
		From:     os.Getenv("SMTP_FROM"),
		Password: os.Getenv("SMTP_PASSWORD"),
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
	}
	if m.Host == "" {
		m.Host = "smtp.gmail.com"
	}
	if m.Port == "" {
		m.Port = "587"
	}
	return m
}

func (m *SMTP) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString("From: " + m.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
