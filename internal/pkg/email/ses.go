package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used by SESSender.
type SESAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type SESSender struct {
	client SESAPI
}

func NewSESSender(cfg aws.Config) *SESSender {
	return &SESSender{client: ses.NewFromConfig(cfg)}
}

func NewSESSenderWithClient(client SESAPI) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	raw, err := msg.Build()
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	res, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(envelopeAddress(msg.From)),
		Destinations: msg.Recipients(),
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	slog.Info("Email sent via SES", "to", msg.To, "subject", msg.Subject, "message_id", aws.ToString(res.MessageId))
	return nil
}
