package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"feedai/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationMatchFound     NotificationType = "MATCH_FOUND"
	NotificationMatchAccepted  NotificationType = "MATCH_ACCEPTED"
	NotificationMatchCompleted NotificationType = "MATCH_COMPLETED"
	NotificationBadgesEarned   NotificationType = "BADGES_EARNED"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string // User ID of the party being notified
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyMatchFound notifies both parties that a donation has been matched.
func (s *NotificationService) NotifyMatchFound(ctx context.Context, match *domain.Match, donation *domain.Donation) error {
	data := map[string]interface{}{
		"match_id":    match.ID,
		"donation_id": donation.ID,
		"food_type":   donation.FoodType,
		"score":       match.Score,
	}

	recipientNote := Notification{
		Type:        NotificationMatchFound,
		RecipientID: match.RecipientID,
		Title:       "New Donation Match",
		Message:     fmt.Sprintf("A donation of %g %s of %s has been matched to you", donation.Quantity, donation.Unit, donation.FoodType),
		Data:        data,
		CreatedAt:   time.Now(),
	}
	s.send(ctx, recipientNote)

	donorNote := Notification{
		Type:        NotificationMatchFound,
		RecipientID: match.DonorID,
		Title:       "Donation Matched",
		Message:     fmt.Sprintf("Your donation of %s has been matched to a recipient", donation.FoodType),
		Data:        data,
		CreatedAt:   time.Now(),
	}
	s.send(ctx, donorNote)

	return nil
}

// NotifyMatchStatusChanged notifies the other party about a lifecycle
// transition.
func (s *NotificationService) NotifyMatchStatusChanged(ctx context.Context, match *domain.Match, actorID string) error {
	// Notify the other party
	recipientID := match.DonorID
	if actorID == match.DonorID {
		recipientID = match.RecipientID
	}

	var notificationType NotificationType
	var title string
	var message string

	switch match.Status {
	case domain.MatchStatusAccepted:
		notificationType = NotificationMatchAccepted
		title = "Match Accepted"
		message = "Your donation match has been accepted"
	case domain.MatchStatusCompleted:
		notificationType = NotificationMatchCompleted
		title = "Match Completed"
		message = "Your donation match has been completed. Thank you!"
	default:
		return nil
	}

	notification := Notification{
		Type:        notificationType,
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Data: map[string]interface{}{
			"match_id": match.ID,
			"status":   string(match.Status),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyBadgesEarned notifies a donor about newly earned badges.
func (s *NotificationService) NotifyBadgesEarned(ctx context.Context, donorID string, badges []string) error {
	if len(badges) == 0 {
		return nil
	}

	notification := Notification{
		Type:        NotificationBadgesEarned,
		RecipientID: donorID,
		Title:       "New Badge Earned",
		Message:     fmt.Sprintf("Congratulations! You earned: %s", strings.Join(badges, ", ")),
		Data: map[string]interface{}{
			"badges": badges,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would:
	// 1. Store notification in database
	// 2. Send push notification via FCM/APNS
	// 3. Send email if enabled

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
