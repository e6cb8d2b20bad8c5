package notification

import "context"

// PermissionState is a recipient's push permission decision.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionDefault PermissionState = "default"
)

// Action is a button attached to a rich notification.
type Action struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is one titled notification for one recipient.
type Message struct {
	RecipientID        string
	Title              string
	Body               string
	Tag                string
	RequireInteraction bool
	Data               map[string]string
	Actions            []Action
}

// PlatformNotifier is the delivery capability behind the dispatcher.
type PlatformNotifier interface {
	RequestPermission(ctx context.Context, recipientID string) (PermissionState, error)
	Show(ctx context.Context, msg Message) error
}

// AdvancedNotifier is a richer channel that also renders actions.
// The dispatcher prefers it when the platform implements it.
type AdvancedNotifier interface {
	PlatformNotifier
	AdvancedShow(ctx context.Context, msg Message) error
}
