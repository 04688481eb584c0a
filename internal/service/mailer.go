package service

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/SankThomas/helpdesk/internal/config"
)

// Mailer sends notification emails best-effort. Without an API key it only
// logs, which is the dev-mode behavior.
type Mailer struct {
	apiKey string
	from   string
	log    zerolog.Logger
}

func NewMailer(cfg config.Config, log zerolog.Logger) *Mailer {
	return &Mailer{
		apiKey: cfg.ResendAPIKey,
		from:   fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		log:    log,
	}
}

func (m *Mailer) Send(to, subject, text string) error {
	if m.apiKey == "" {
		m.log.Debug().Str("to", to).Str("subject", subject).Msg("email not sent (no api key)")
		return nil
	}
	client := resend.NewClient(m.apiKey)
	_, err := client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	})
	return err
}

// SendAsync fires the email off the request path. Failures are logged and
// dropped; notification records are the source of truth, email is a hint.
func (m *Mailer) SendAsync(to, subject, text string) {
	go func() {
		if err := m.Send(to, subject, text); err != nil {
			m.log.Error().Err(err).Str("to", to).Msg("notification email failed")
		}
	}()
}
