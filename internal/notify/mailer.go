// Package notify dispatches outbound email for ride lifecycle events.
// Dispatch is best-effort everywhere: a failed send is logged and
// swallowed, never surfaced to the caller of the primary operation.
package notify

import (
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host, port, username, password, from string) (*SMTPMailer, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, err
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, p, username, password),
		from:   from,
	}, nil
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// Noop is used when SMTP is not configured. Sends succeed silently.
type Noop struct{}

func (Noop) Send(to, subject, body string) error { return nil }
