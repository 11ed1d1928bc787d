package alertbus

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailBus sends one email per alert over SMTP. PlainAuth withholds
// credentials until the server identifies itself as trusted.
type EmailBus struct {
	host, from, to string
	port           int
	auth           smtp.Auth
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

func NewEmailBus(cfg EmailConfig) *EmailBus {
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	return &EmailBus{host: cfg.Host, port: cfg.Port, from: cfg.From, to: cfg.To, auth: auth}
}

func (b *EmailBus) Publish(alert Alert) error {
	addr := fmt.Sprintf("%s:%d", b.host, b.port)
	recipients := strings.Split(b.to, ",")

	subject := fmt.Sprintf("GridWatcher alert: %s %s", alert.Type, alert.SrcIP)
	body := fmt.Sprintf("type: %s\nsrc_ip: %s\nreason: %s\ntimestamp: %s\n",
		alert.Type, alert.SrcIP, alert.Reason, alert.Timestamp)

	msg := []byte("To: " + b.to + "\r\n" +
		"From: " + b.from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body)

	if err := smtp.SendMail(addr, b.auth, b.from, recipients, msg); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}
