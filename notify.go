package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// emailChannel is the reserved channel name delivered via Brevo instead of
// the notifier binary.
const emailChannel = "email"

// NotificationSink delivers one formatted alert report to one channel.
// Implementations make a single bounded attempt; retrying is the operator's
// policy, not the monitor's.
type NotificationSink interface {
	Notify(ctx context.Context, channel, message string) error
}

// newNotificationSink builds the production sink: the external notifier
// binary for every channel, with the "email" channel routed to Brevo when
// credentials are configured.
func newNotificationSink(config Config) NotificationSink {
	sink := &routingSink{exec: &execSink{botPath: config.Notify.BotPath}}
	if config.EmailConfigured() {
		cfg := brevo.NewConfiguration()
		cfg.AddDefaultHeader("api-key", config.Notify.Email.APIKey)
		sink.email = &brevoSink{
			client: brevo.NewAPIClient(cfg),
			from:   config.Notify.Email.From,
			to:     config.Notify.Email.To,
		}
	}
	return sink
}

// routingSink dispatches by channel name.
type routingSink struct {
	exec  NotificationSink
	email NotificationSink
}

func (s *routingSink) Notify(ctx context.Context, channel, message string) error {
	if channel == emailChannel {
		if s.email == nil {
			return errors.New("email channel enabled but notify.email is not configured")
		}
		return s.email.Notify(ctx, channel, message)
	}
	return s.exec.Notify(ctx, channel, message)
}

// execSink invokes the external notifier binary with the channel identifier
// and report text as positional arguments. Its output is discarded; the
// caller bounds execution through the context deadline.
type execSink struct {
	botPath string
}

func (s *execSink) Notify(ctx context.Context, channel, message string) error {
	if _, err := os.Stat(s.botPath); err != nil {
		return fmt.Errorf("notifier binary %s not found, place it next to the monitor: %w", s.botPath, err)
	}

	cmd := exec.CommandContext(ctx, s.botPath, channel, message)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("notifier %s timed out for channel %s: %w", s.botPath, channel, ctx.Err())
		}
		return fmt.Errorf("notifier %s failed for channel %s: %w", s.botPath, channel, err)
	}
	return nil
}

// brevoSink sends the report as a transactional email.
type brevoSink struct {
	client *brevo.APIClient
	from   string
	to     string
}

func (s *brevoSink) Notify(ctx context.Context, channel, message string) error {
	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  "Reach Monitor",
			Email: s.from,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: s.to},
		},
		Subject:     "🔴 Reach Monitor Alert: unreachable hosts detected",
		HtmlContent: fmt.Sprintf("<pre>%s</pre>", message),
		TextContent: message,
	}

	if _, _, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, email); err != nil {
		return fmt.Errorf("failed to send email via Brevo: %w", err)
	}
	return nil
}
