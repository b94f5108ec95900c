package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v3"
)

// Service mirrors in-app notifications to email. It is disabled (every send
// is a logged no-op) when no API key is configured.
type Service interface {
	SendNotification(ctx context.Context, to, name, message string) error
}

type service struct {
	client    *resend.Client
	fromEmail string
}

func NewService(apiKey, fromEmail string) Service {
	s := &service{fromEmail: fromEmail}
	if apiKey != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

func (s *service) SendNotification(ctx context.Context, to, name, message string) error {
	if s.client == nil {
		log.Printf("email: disabled, skipping notification to %s", to)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("CivicWatch <%s>", s.fromEmail),
		To:      []string{to},
		Subject: "Update on your report",
		Html: fmt.Sprintf(
			"<p>Hi %s,</p><p>%s</p><p>Open your dashboard to see the details.</p>",
			name, message,
		),
	}

	_, err := s.client.Emails.Send(params)
	return err
}
