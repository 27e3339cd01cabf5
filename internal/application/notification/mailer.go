package notification

import "context"

// Message is a rendered email ready for delivery
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers rendered messages. Implementations live in infrastructure/mail.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Metrics receives notification outcomes. Implemented by telemetry.BusinessMetrics.
type Metrics interface {
	NotificationSent(ctx context.Context, kind string)
	NotificationFailed(ctx context.Context, kind string)
}

type nopMetrics struct{}

func (nopMetrics) NotificationSent(context.Context, string)   {}
func (nopMetrics) NotificationFailed(context.Context, string) {}

// Notification kinds, used as the metric attribute and log field
const (
	KindOrderConfirmation     = "order_confirmation"
	KindComplaintConfirmation = "complaint_confirmation"
	KindCouponIssued          = "coupon_issued"
	KindCouponRevoked         = "coupon_revoked"
)

// Delivery status reported alongside a successful write
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Result is the outcome of a best-effort notification
type Result struct {
	Status string `json:"status"`
}
