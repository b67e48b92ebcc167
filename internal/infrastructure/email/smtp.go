package email

import (
	"fmt"
	"net/url"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	// BaseURL is the invite link prefix, e.g. "fitpass://invite".
	BaseURL string
}

// Service sends the transactional emails of the backend.
type Service interface {
	SendFamilyInvite(to, inviter, token string, expiresAt time.Time) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// InviteURL is the deep link that opens the app on the invite acceptance flow.
func (s *SMTPEmailService) InviteURL(token string) string {
	return fmt.Sprintf("%s?token=%s", s.config.BaseURL, url.QueryEscape(token))
}

func (s *SMTPEmailService) SendFamilyInvite(to, inviter, token string, expiresAt time.Time) error {
	link := s.InviteURL(token)
	if inviter == "" {
		inviter = "A FitPass member"
	}
	expires := expiresAt.UTC().Format("2006-01-02 15:04 MST")

	subject := fmt.Sprintf("%s invited you to their FitPass family plan", inviter)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>You're invited!</h2>
			<p>%s wants to share their FitPass family plan with you.</p>
			<p><a href="%s">Accept the invite</a></p>
			<p>Or open this link on your phone:</p>
			<p>%s</p>
			<p>The invite expires on %s.</p>
		</body>
		</html>
	`, inviter, link, link, expires)

	plainBody := fmt.Sprintf(`
%s wants to share their FitPass family plan with you.

Accept the invite by opening:
%s

The invite expires on %s.
	`, inviter, link, expires)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NopEmailService logs instead of sending, for deployments without SMTP.
type NopEmailService struct {
	logger logger.Interface
}

func NewNopEmailService(log logger.Interface) *NopEmailService {
	return &NopEmailService{logger: log}
}

func (s *NopEmailService) SendFamilyInvite(to, _, _ string, _ time.Time) error {
	s.logger.Warnw("email service not configured, family invite not sent", "to", to)
	return nil
}
