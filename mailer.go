package main

import "gopkg.in/gomail.v2"

// Mailer delivers a short text message to an address. Handlers depend on the
// interface so tests can substitute a fake.
type Mailer interface {
	Send(to, subject, body string) error
}

var mailer Mailer

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
}

func newSMTPMailer(cfg Config) *smtpMailer {
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return d.DialAndSend(msg)
}
