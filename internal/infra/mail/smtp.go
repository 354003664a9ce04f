// Package mail delivers reminder emails over SMTP.
package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	gomail "github.com/wneessen/go-mail"
)

// SenderName is the display name on every outgoing message.
const SenderName = "Job Tracker"

// Config holds the SMTP account used to send reminders.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Enabled reports whether credentials are present.
func (c Config) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// SMTPNotifier sends each message over a fresh SMTP session.
type SMTPNotifier struct {
	cfg    Config
	logger *slog.Logger
}

func NewSMTPNotifier(cfg Config, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger.With("component", "smtp-notifier")}
}

func (n *SMTPNotifier) client() (*gomail.Client, error) {
	return gomail.NewClient(n.cfg.Host,
		gomail.WithPort(n.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.cfg.Username),
		gomail.WithPassword(n.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
}

// Send delivers msg once.
func (n *SMTPNotifier) Send(ctx context.Context, msg domain.Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(SenderName, n.cfg.Username); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	text := msg.Text
	if text == "" {
		text = PlainText(msg.HTML)
	}
	m.AddAlternativeString(gomail.TypeTextPlain, text)

	c, err := n.client()
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		n.logger.Error("failed to send email", "subject", msg.Subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.logger.Info("email sent", "subject", msg.Subject)
	return nil
}

var (
	styleBlock = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tag        = regexp.MustCompile(`<[^>]*>`)
	blankLines = regexp.MustCompile(`\n\s*\n+`)
)

// PlainText derives a text part from an HTML body by dropping markup.
func PlainText(body string) string {
	s := styleBlock.ReplaceAllString(body, "")
	s = tag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(s, "\n\n"))
}
