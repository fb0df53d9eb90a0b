package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateOrderIsMonotonic(t *testing.T) {
	t.Parallel()

	flow := []State{
		StateWelcome, StateGatherBatch, StateAskName, StateGatherName,
		StateAskType, StateRecording, StateRecordComplete,
		StatePlaybackConfirm, StateConfirmEdit, StateConfirmAccept, StateOperator,
	}
	for i := 1; i < len(flow); i++ {
		assert.Greater(t, flow[i].Order(), flow[i-1].Order(), "%s must come after %s", flow[i], flow[i-1])
	}
}

func TestTerminalStates(t *testing.T) {
	t.Parallel()

	assert.True(t, StateConfirmAccept.Terminal())
	assert.True(t, StateOperator.Terminal())
	assert.False(t, StateWelcome.Terminal())
	assert.False(t, StatePlaybackConfirm.Terminal())
}

func TestSessionFinalized(t *testing.T) {
	t.Parallel()

	s := &Session{}
	assert.False(t, s.Finalized())
	s.ComplaintID = "CMP-1A2B3C4D"
	assert.True(t, s.Finalized())
}

func TestIncrementRetry(t *testing.T) {
	t.Parallel()

	s := &Session{}
	assert.Zero(t, s.RetryCount(StateGatherBatch))
	assert.Equal(t, 1, s.IncrementRetry(StateGatherBatch))
	assert.Equal(t, 2, s.IncrementRetry(StateGatherBatch))
	assert.Equal(t, 1, s.IncrementRetry(StateGatherName))
	assert.Equal(t, 2, s.RetryCount(StateGatherBatch))
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	s := &Session{CallID: "CA-1", BatchNumber: "77"}
	s.IncrementRetry(StateGatherBatch)

	c := s.Clone()
	c.BatchNumber = "changed"
	c.Retries[StateGatherBatch] = 99

	assert.Equal(t, "77", s.BatchNumber)
	assert.Equal(t, 1, s.RetryCount(StateGatherBatch))
}

func TestTerminalCallStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []string{
		CallStatusCompleted, CallStatusBusy, CallStatusFailed, CallStatusNoAnswer, CallStatusCanceled,
	} {
		assert.True(t, TerminalCallStatus(status), status)
	}
	for _, status := range []string{CallStatusQueued, CallStatusRinging, CallStatusInProgress, ""} {
		assert.False(t, TerminalCallStatus(status), status)
	}
}
