package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind names the event and doubles as the template name used to render it.
type Kind string

const (
	KindApplicationApproved Kind = "application_approved"
	KindApplicationRefused  Kind = "application_refused"
	KindInterviewScheduled  Kind = "interview_scheduled"
	KindInterviewReminder   Kind = "interview_reminder"
)

// Notification is one outbound message. Fields feed the template placeholders.
type Notification struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	Recipient string            `json:"recipient"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"createdAt"`
}

// New stamps a notification with an id and creation time.
func New(kind Kind, recipient string, fields map[string]string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
}

// Dispatcher hands notifications off the request path. Implementations never
// report failures to the caller; they log and count them instead.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}

// Noop discards everything.
type Noop struct{}

func (Noop) Dispatch(context.Context, Notification) {}
