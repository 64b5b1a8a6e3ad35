package mail

import (
	"gopkg.in/gomail.v2"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
