package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Template names.
const (
	TemplateCareCheckIn    = "care_check_in.html"
	TemplateCareCheckOut   = "care_check_out.html"
	TemplateTimesheetSaved = "timesheet_saved.html"
	TemplateResetCode      = "reset_code.html"
	TemplateLeaveRequest   = "leave_request.html"
	TemplateTest           = "test.html"
)

const layoutFile = "layout.html"

//go:embed templates/*.html
var templateFS embed.FS

// ErrNoRecipients is returned when a message has no To addresses.
var ErrNoRecipients = errors.New("email has no recipients")

// Message is a templated HTML email.
type Message struct {
	To       []string
	CC       []string
	Subject  string
	Template string
	Data     any
}

// Notifier sends templated emails.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Service sends email through an SMTP server. When no credentials are
// configured it logs the message and reports success.
type Service struct {
	config    SMTPConfig
	logger    zerolog.Logger
	templates map[string]*template.Template
	deliver   func(from string, recipients []string, raw []byte) error
}

// NewService parses the embedded templates and returns a Service.
func NewService(config SMTPConfig, logger zerolog.Logger) (*Service, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s := &Service{config: config, logger: logger, templates: templates}
	s.deliver = s.deliverSMTP
	return s, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		name := strings.TrimPrefix(entry, "templates/")
		if name == layoutFile {
			continue
		}
		tmpl, err := template.ParseFS(templateFS, "templates/"+layoutFile, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// Enabled reports whether SMTP credentials are configured.
func (s *Service) Enabled() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// Send renders msg and delivers it.
func (s *Service) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := s.Render(msg)
	if err != nil {
		return err
	}

	if !s.Enabled() {
		s.logger.Warn().
			Strs("to", msg.To).
			Strs("cc", msg.CC).
			Str("subject", msg.Subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	recipients := append(append([]string{}, msg.To...), msg.CC...)
	if err := s.deliver(s.config.FromEmail, recipients, raw); err != nil {
		s.logger.Error().Err(err).Strs("to", msg.To).Str("subject", msg.Subject).Msg("Failed to send email")
		return err
	}

	s.logger.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

// Render builds the MIME message for msg.
func (s *Service) Render(msg Message) ([]byte, error) {
	tmpl, ok := s.templates[msg.Template]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", msg.Template)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", msg.Data); err != nil {
		return nil, fmt.Errorf("failed to render email template %s: %w", msg.Template, err)
	}

	var message bytes.Buffer
	writeHeader(&message, "From", fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail))
	writeHeader(&message, "To", strings.Join(msg.To, ", "))
	if len(msg.CC) > 0 {
		writeHeader(&message, "Cc", strings.Join(msg.CC, ", "))
	}
	writeHeader(&message, "Subject", msg.Subject)
	writeHeader(&message, "Date", time.Now().Format(time.RFC1123Z))
	writeHeader(&message, "MIME-Version", "1.0")
	writeHeader(&message, "Content-Type", "text/html; charset=UTF-8")
	message.WriteString("\r\n")
	message.Write(body.Bytes())

	return message.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func (s *Service) deliverSMTP(from string, recipients []string, raw []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, from, recipients, raw); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range recipients {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(raw); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
