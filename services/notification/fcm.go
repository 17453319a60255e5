package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	partyRepo "github.com/manoj0277/agrirent-backend/database/repository/party"
	"github.com/manoj0277/agrirent-backend/models"
)

// FCMService delivers lifecycle events as Firebase Cloud Messaging pushes,
// resolving the recipient's token through the party repository.
type FCMService struct {
	client  *messaging.Client
	Parties partyRepo.Repository
}

func NewFCMService(ctx context.Context, credentialsFile string, parties partyRepo.Repository) (*FCMService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}
	return &FCMService{client: client, Parties: parties}, nil
}

func (s *FCMService) Notify(ctx context.Context, event models.NotificationEvent) error {
	p, err := s.Parties.GetByID(ctx, event.RecipientID)
	if err != nil {
		return fmt.Errorf("could not resolve recipient %s: %w", event.RecipientID, err)
	}
	if p.FCMToken == "" {
		return fmt.Errorf("recipient %s has no FCM token", event.RecipientID)
	}

	msg := &messaging.Message{
		Token: p.FCMToken,
		Notification: &messaging.Notification{
			Title: "AgriRent",
			Body:  event.Message,
		},
		Data: map[string]string{
			"category":  event.Category,
			"bookingId": event.BookingID,
			"status":    string(event.Status),
		},
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
