package notify

import (
	"context"
	"testing"

	slacklib "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/intake/internal/domain"
)

type mockSMS struct {
	sendFunc func(ctx context.Context, to, body string) error
}

func (m *mockSMS) Send(ctx context.Context, to, body string) error {
	return m.sendFunc(ctx, to, body)
}

type mockSlack struct {
	gotChannel string
	gotOptions int
	err        error
}

func (m *mockSlack) PostMessageContext(_ context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error) {
	m.gotChannel = channelID
	m.gotOptions = len(options)
	return "", "", m.err
}

func TestComplaintFiledSendsSMS(t *testing.T) {
	t.Parallel()

	var gotTo, gotBody string
	sms := &mockSMS{sendFunc: func(_ context.Context, to, body string) error {
		gotTo = to
		gotBody = body
		return nil
	}}

	n := New(sms, nil, "")
	n.ComplaintFiled(context.Background(), &domain.Complaint{
		ComplaintID:  "CMP-1A2B3C4D",
		CallID:       "CA-1",
		CallerNumber: "+15550001111",
	})

	assert.Equal(t, "+15550001111", gotTo)
	assert.Equal(t, "Your complaint has been filed. Reference ID: CMP-1A2B3C4D.", gotBody)
}

func TestComplaintFiledWithoutSMSConfigured(t *testing.T) {
	t.Parallel()

	// Must not panic; degrades to a log line.
	n := New(nil, nil, "")
	n.ComplaintFiled(context.Background(), &domain.Complaint{ComplaintID: "CMP-1A2B3C4D"})
}

func TestComplaintFiledWithoutCallerNumber(t *testing.T) {
	t.Parallel()

	sms := &mockSMS{sendFunc: func(context.Context, string, string) error {
		t.Fatal("must not send without a destination number")
		return nil
	}}

	n := New(sms, nil, "")
	n.ComplaintFiled(context.Background(), &domain.Complaint{ComplaintID: "CMP-1A2B3C4D"})
}

func TestComplaintFiledSendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	sms := &mockSMS{sendFunc: func(context.Context, string, string) error {
		return assert.AnError
	}}

	n := New(sms, nil, "")
	// Errors are logged, never propagated.
	n.ComplaintFiled(context.Background(), &domain.Complaint{
		ComplaintID:  "CMP-1A2B3C4D",
		CallerNumber: "+15550001111",
	})
}

func TestOperatorEscalatedPostsToSlack(t *testing.T) {
	t.Parallel()

	slack := &mockSlack{}
	n := New(nil, slack, "#ops")

	n.OperatorEscalated(context.Background(), &domain.Session{
		CallID:      "CA-1",
		BatchNumber: "77",
		CallerName:  "Jane Doe",
	})

	assert.Equal(t, "#ops", slack.gotChannel)
	require.Equal(t, 1, slack.gotOptions)
}

func TestOperatorEscalatedWithoutSlackConfigured(t *testing.T) {
	t.Parallel()

	// Token set but no channel: degrades to logging.
	slack := &mockSlack{}
	n := New(nil, slack, "")
	n.OperatorEscalated(context.Background(), &domain.Session{CallID: "CA-1"})
	assert.Empty(t, slack.gotChannel)
}
