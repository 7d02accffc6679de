package ports

import "context"

// NotificationChannel selects the delivery transport for a notification.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)

// Notification is a rendered message bound for a single destination.
type Notification struct {
	Channel NotificationChannel
	To      string
	Subject string
	Body    string
}

// Notifier accepts notifications for asynchronous, best-effort delivery.
// Enqueue must never block the caller beyond queue capacity and delivery
// failures must never be surfaced to the workflow that triggered them.
type Notifier interface {
	Enqueue(n Notification)
}

// NotificationSender performs the actual delivery of one notification. Real
// deployments plug an SMTP or WhatsApp client in here.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

// RequestLimiter is the request-rate guard applied at the route layer for
// the verification endpoints.
type RequestLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
