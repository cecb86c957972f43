package mail

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"

	"github.com/VoiceAsService/VoxGate/app/models"
)

// Config carries the SMTP settings for one send. Callers resolve the active
// EmailConfig row at call time and pass it in; nothing process-wide is mutated.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// ConfigFromModel builds a send config from a stored email configuration row.
func ConfigFromModel(m *models.EmailConfig) Config {
	sender := m.Sender
	if sender == "" {
		sender = m.Username
	}
	return Config{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		Sender:   sender,
	}
}

// SendMail sends an HTML email via SMTP using the given config.
func SendMail(cfg Config, to string, subject string, body string) error {
	if cfg.Host == "" {
		return errors.New("mail: smtp host is not configured")
	}
	sender := cfg.Sender
	if sender == "" {
		sender = "no-reply@localhost"
		log.Printf("mail sender not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	}
	return err
}
