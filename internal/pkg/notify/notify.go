package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/zugo-hr/attendance-backend-go/internal/config"
)

// Notifier posts operational messages about background jobs.
type Notifier interface {
	Info(ctx context.Context, message string) error
	Error(ctx context.Context, message string) error
}

// New returns a Slack notifier, or a log-only one when no token is configured.
func New(cfg config.SlackConfig) Notifier {
	if cfg.Token == "" {
		return Nop{}
	}
	return NewSlack(slack.New(cfg.Token), cfg.InfoChannelID, cfg.ErrorChannelID)
}

// Nop only logs.
type Nop struct{}

func (Nop) Info(_ context.Context, message string) error {
	slog.Info("Notification", "message", message)
	return nil
}

func (Nop) Error(_ context.Context, message string) error {
	slog.Error("Notification", "message", message)
	return nil
}

// Poster is the slack client method used by Slack.
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type Slack struct {
	client         Poster
	infoChannelID  string
	errorChannelID string
}

func NewSlack(client Poster, infoChannelID, errorChannelID string) *Slack {
	return &Slack{client: client, infoChannelID: infoChannelID, errorChannelID: errorChannelID}
}

func (s *Slack) postMessage(ctx context.Context, channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.infoChannelID, message)
}

func (s *Slack) Error(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.errorChannelID, message)
}
