package notifications

import (
	"context"
	"crypto/tls"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Sender delivers a rendered message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

type SMTPSender struct {
	cfg SMTPConfig
	// swapped in tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	msg := buildMessage(s.cfg.From, to, subject, body)

	err := s.sendMail(addr, auth, s.cfg.From, []string{to}, msg)
	if err != nil && s.cfg.Port == "465" {
		return s.sendImplicitTLS(addr, auth, to, msg)
	}
	return err
}

// sendImplicitTLS handles servers that expect TLS from the first byte.
func (s *SMTPSender) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()
	if err = c.Auth(auth); err != nil {
		return err
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write(msg); err != nil {
		return err
	}
	return wc.Close()
}

// headerSanitizer folds line breaks so rendered values such as an offer title
// cannot start a new header.
var headerSanitizer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func buildMessage(from, to, subject, body string) []byte {
	return []byte("From: \"InternHub\" <" + headerSanitizer.Replace(from) + ">\r\n" +
		"To: " + headerSanitizer.Replace(to) + "\r\n" +
		"Subject: " + headerSanitizer.Replace(subject) + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n")
}

// LogSender writes messages to the logger instead of sending them. Used when
// SMTP is not configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, to, subject, body string) error {
	s.Logger.Info("notification",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)))
	return nil
}
