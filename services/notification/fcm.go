package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Sender is the part of the FCM client the notifier needs.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier delivers notifications through Firebase Cloud Messaging.
type FCMNotifier struct {
	sender Sender
	tokens *TokenStore
	logger *zap.Logger
}

// NewFCMNotifier builds a notifier over an FCM sender and the token registry.
func NewFCMNotifier(sender Sender, tokens *TokenStore, logger *zap.Logger) (*FCMNotifier, error) {
	if sender == nil || tokens == nil {
		return nil, errors.New("fcm notifier initialization error: sender or token store is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMNotifier{sender: sender, tokens: tokens, logger: logger}, nil
}

// RequestPermission reports what the token registry knows about the recipient.
func (n *FCMNotifier) RequestPermission(ctx context.Context, recipientID string) (PermissionState, error) {
	_, state, err := n.tokens.Lookup(ctx, recipientID)
	return state, err
}

// Show sends a plain notification.
func (n *FCMNotifier) Show(ctx context.Context, msg Message) error {
	return n.send(ctx, msg, false)
}

// AdvancedShow sends a high priority notification carrying its actions.
func (n *FCMNotifier) AdvancedShow(ctx context.Context, msg Message) error {
	return n.send(ctx, msg, true)
}

func (n *FCMNotifier) send(ctx context.Context, msg Message, rich bool) error {
	token, state, err := n.tokens.Lookup(ctx, msg.RecipientID)
	if err != nil {
		return err
	}
	if state != PermissionGranted {
		return fmt.Errorf("recipient %s has no push token", msg.RecipientID)
	}

	fcmMsg := buildFCMMessage(token, msg, rich)
	id, err := n.sender.Send(ctx, fcmMsg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	n.logger.Debug("FCM message sent",
		zap.String("recipientId", msg.RecipientID),
		zap.String("tag", msg.Tag),
		zap.String("messageId", id),
	)
	return nil
}

func buildFCMMessage(token string, msg Message, rich bool) *messaging.Message {
	data := make(map[string]string, len(msg.Data)+3)
	for k, v := range msg.Data {
		data[k] = v
	}
	if msg.Tag != "" {
		data["tag"] = msg.Tag
	}
	data["requireInteraction"] = strconv.FormatBool(msg.RequireInteraction)

	priority, apnsPriority := "normal", "5"
	if rich || msg.RequireInteraction {
		priority, apnsPriority = "high", "10"
	}

	out := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: priority,
			Notification: &messaging.AndroidNotification{
				ChannelID: "booking_updates",
				Sound:     "default",
				Tag:       msg.Tag,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  apnsPriority,
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:    "default",
					ThreadID: msg.Tag,
				},
			},
		},
	}

	if rich && len(msg.Actions) > 0 {
		out.Android.Notification.ClickAction = msg.Actions[0].ID
		out.APNS.Payload.Aps.Category = msg.Tag
		for i, a := range msg.Actions {
			data[fmt.Sprintf("action_%d", i)] = a.ID + "|" + a.Title
		}
	}
	return out
}
