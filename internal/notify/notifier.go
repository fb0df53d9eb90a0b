package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/intake/internal/domain"
)

// SMSSender delivers one outbound text message.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// SlackAPI abstracts the subset of the Slack client used by the Notifier.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// Notifier sends the post-call notifications the core fires and forgets:
// the confirmation SMS after finalization and the operator-escalation alert.
// Unconfigured channels degrade to logging.
type Notifier struct {
	sms          SMSSender // nil when SMS is not configured
	slack        SlackAPI  // nil when Slack is not configured
	slackChannel string
}

// New creates a Notifier. sms and slack may be nil.
func New(sms SMSSender, slack SlackAPI, slackChannel string) *Notifier {
	return &Notifier{
		sms:          sms,
		slack:        slack,
		slackChannel: slackChannel,
	}
}

// ComplaintFiled texts the caller their complaint ID. Implements
// flow.Notifier; errors are logged because nothing upstream awaits them.
func (n *Notifier) ComplaintFiled(ctx context.Context, c *domain.Complaint) {
	if n.sms == nil || c.CallerNumber == "" {
		log.Info().
			Str("complaint_id", c.ComplaintID).
			Str("call_id", c.CallID).
			Msg("complaint filed (sms not configured or caller number unknown)")
		return
	}

	body := fmt.Sprintf("Your complaint has been filed. Reference ID: %s.", c.ComplaintID)
	if err := n.sms.Send(ctx, c.CallerNumber, body); err != nil {
		log.Error().Err(err).Str("complaint_id", c.ComplaintID).Msg("send confirmation sms")
	}
}

// OperatorEscalated alerts the operator channel that a caller needs a human.
func (n *Notifier) OperatorEscalated(ctx context.Context, s *domain.Session) {
	if n.slack == nil || n.slackChannel == "" {
		log.Info().Str("call_id", s.CallID).Msg("operator escalation (slack not configured)")
		return
	}

	text := fmt.Sprintf("Caller on call %s asked for an operator (batch %q, name %q).",
		s.CallID, s.BatchNumber, s.CallerName)

	_, _, err := n.slack.PostMessageContext(ctx, n.slackChannel, slacklib.MsgOptionText(text, false))
	if err != nil {
		log.Error().Err(err).Str("call_id", s.CallID).Msg("post operator escalation")
	}
}
