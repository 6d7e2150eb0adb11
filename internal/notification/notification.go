package notification

import (
	"context"
	"time"
)

// Message is one delivery to one recipient.
type Message struct {
	ID          string                 `json:"id"`
	EventType   string                 `json:"eventType"`
	LeaveID     string                 `json:"leaveId"`
	RecipientID string                 `json:"recipientId"`
	Email       string                 `json:"email,omitempty"`
	Subject     string                 `json:"subject"`
	Body        string                 `json:"body"`
	Data        map[string]interface{} `json:"data,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// Provider delivers a message over one channel. Errors are logged by the
// dispatcher and never reach the workflow.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
