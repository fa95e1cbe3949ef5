package services

import (
	"context"
	"fmt"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/email"
	"github.com/rs/zerolog"
)

// Server statuses reported by Status.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Pinger checks that the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemService defines the interface for server status and diagnostics
type SystemService interface {
	Status(ctx context.Context) dto.StatusResponse
	SendTestEmail(ctx context.Context) (*dto.EmailTestResponse, error)
}

// systemServiceImpl implements SystemService
type systemServiceImpl struct {
	db        Pinger
	notifier  email.Notifier
	recipient string
	logger    zerolog.Logger
}

// NewSystemService creates a new SystemService. Test emails are sent to recipient.
func NewSystemService(db Pinger, notifier email.Notifier, recipient string, logger zerolog.Logger) SystemService {
	return &systemServiceImpl{db: db, notifier: notifier, recipient: recipient, logger: logger}
}

// Status pings the database
func (s *systemServiceImpl) Status(ctx context.Context) dto.StatusResponse {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Database ping failed")
		return dto.StatusResponse{Status: StatusOffline}
	}
	return dto.StatusResponse{Status: StatusOnline}
}

// SendTestEmail sends the test template to the configured sender address
func (s *systemServiceImpl) SendTestEmail(ctx context.Context) (*dto.EmailTestResponse, error) {
	if s.recipient == "" {
		return nil, fmt.Errorf("%w: no sender address is configured", apperrors.ErrEmailDelivery)
	}
	err := s.notifier.Send(ctx, email.Message{
		To:       []string{s.recipient},
		Subject:  "PCA Test Email",
		Template: email.TemplateTest,
		Data:     map[string]any{"SentAt": time.Now().Format(time.RFC1123)},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipient", s.recipient).Msg("Test email failed")
		return nil, fmt.Errorf("%w: The email could not be sent", apperrors.ErrEmailDelivery)
	}
	return &dto.EmailTestResponse{Recipient: s.recipient, Sent: true}, nil
}
