package site

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

// Mailer sends a single plain-text message. Implementations must be safe for
// concurrent use; sends happen on goroutines detached from the request.
type Mailer interface {
	Send(to, subject, body string) error
}

// smtpMailer delivers through a plain SMTP relay.
type smtpMailer struct {
	addr     string
	user     string
	password string
	from     string
}

// NewSMTPMailer creates a Mailer using the SMTP settings from SiteConfig.
func NewSMTPMailer(cfg SiteConfig) Mailer {
	return &smtpMailer{
		addr:     cfg.SMTPAddr,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	host := m.addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, host)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	return smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg))
}

// notifyContact fires the two contact-form emails: an operator notification
// and a submitter confirmation. Both are best effort and independent; the
// HTTP response never waits for or reflects them.
func (a *App) notifyContact(ct Contact) {
	if a.mailer == nil {
		return
	}
	submitted := ct.CreatedAt.Format(time.RFC1123)

	go func() {
		body := fmt.Sprintf("New contact form submission\n\nName: %s\nEmail: %s\nCompany: %s\nSubmitted: %s\nSubmission ID: %s\n\n%s\n",
			ct.Name, ct.Email, ct.Company, submitted, ct.ID, ct.Message)
		if err := a.mailer.Send(a.Config.MailTo, "New contact form submission", body); err != nil {
			slog.Error("contact notification email failed", "error", err, "submission", ct.ID)
		}
	}()

	go func() {
		body := fmt.Sprintf("Hi %s,\n\nThanks for getting in touch with %s. We received your message and will get back to you shortly.\n\nYour message:\n%s\n",
			ct.Name, a.Config.Name, ct.Message)
		if err := a.mailer.Send(ct.Email, "We received your message", body); err != nil {
			slog.Error("contact confirmation email failed", "error", err, "submission", ct.ID)
		}
	}()
}
