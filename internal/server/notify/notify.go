// Package notify hands account and reminder messages to an outbound sender
// without blocking the operation that produced them.
package notify

import (
	"context"
	"fmt"
)

// Kind identifies the message template.
type Kind string

const (
	Welcome      Kind = "welcome"
	Cancellation Kind = "cancellation"
	Reminder     Kind = "reminder"
)

// Message is one outbound notification. Pending is used by reminders only.
type Message struct {
	Kind    Kind
	Email   string
	Pending int
}

// Subject returns the subject line for the message kind.
func (m Message) Subject() string {
	switch m.Kind {
	case Welcome:
		return "Welcome to gophtodo"
	case Cancellation:
		return "Sorry to see you go"
	case Reminder:
		return "Todo reminder"
	default:
		return string(m.Kind)
	}
}

// Body returns the plain-text body for the message kind.
func (m Message) Body() string {
	switch m.Kind {
	case Welcome:
		return fmt.Sprintf("Welcome to gophtodo, %s. I hope that you enjoy it.", m.Email)
	case Cancellation:
		return fmt.Sprintf("Goodbye, %s. I hope to see you again.", m.Email)
	case Reminder:
		return fmt.Sprintf("You have %d todo(s) left.", m.Pending)
	default:
		return ""
	}
}

// Notifier accepts messages for best-effort delivery. Notify never blocks on
// delivery and never reports failure to the caller.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// Sender performs the actual delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
