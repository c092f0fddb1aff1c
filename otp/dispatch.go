package otp

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
)

// SMTPDispatcher delivers one-time codes over plain SMTP.
type SMTPDispatcher struct {
	Addr string // host:port of the SMTP server
	From string
	Auth smtp.Auth
}

func (d *SMTPDispatcher) SendOTP(_ context.Context, email, code string, expiresIn time.Duration) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your voting code\r\n\r\n"+
		"Your one-time voting code is %s. It expires in %d minutes.\r\n",
		d.From, email, code, int(expiresIn.Minutes()))
	if err := smtp.SendMail(d.Addr, d.Auth, d.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogDispatcher writes codes to the log instead of sending mail. Only for
// development setups without an SMTP server.
type LogDispatcher struct{}

func (LogDispatcher) SendOTP(_ context.Context, email, code string, expiresIn time.Duration) error {
	log.Warnw("mail dispatch disabled, logging one-time code",
		"email", email, "code", code, "expiresIn", expiresIn)
	return nil
}

// StaticDirectory resolves voter emails from a fixed map.
type StaticDirectory map[string]string

func (d StaticDirectory) Email(voterID string) (string, error) {
	email, ok := d[voterID]
	if !ok {
		return "", fmt.Errorf("voter %q not in directory", voterID)
	}
	return email, nil
}
