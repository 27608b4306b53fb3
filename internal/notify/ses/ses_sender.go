package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
	}, nil
}

func (s *sesSender) Send(ctx context.Context, msg port.EmailMessage) error {
	body := &types.Body{}
	if msg.BodyText != "" {
		text := msg.BodyText
		body.Text = &types.Content{Data: &text}
	}
	if msg.BodyHTML != "" {
		html := msg.BodyHTML
		body.Html = &types.Content{Data: &html}
	}

	subject := msg.Subject
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.fromAddress,
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
