package port

import "context"

// EmailMessage is a plain notification email.
type EmailMessage struct {
	To       string
	Subject  string
	BodyText string
	BodyHTML string
}

// EmailSender abstracts the outbound email provider.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
