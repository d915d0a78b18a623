package email

import "context"

// Sender delivers a built message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
