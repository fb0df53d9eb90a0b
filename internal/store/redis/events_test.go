package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/intake/internal/domain"
)

func TestCallChannel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "call:CA-1", CallChannel("CA-1"))
	assert.Equal(t, "calls", MonitorChannel)
}

func TestCallEventPayloadShape(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(CallEventPayload{
		CallID:      "CA-1",
		Event:       domain.EventConfirmKeypress,
		State:       domain.StateConfirmAccept,
		ComplaintID: "CMP-1A2B3C4D",
		At:          at,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "CA-1", got["call_id"])
	assert.Equal(t, "confirm-keypress", got["event"])
	assert.Equal(t, "confirm_accept", got["state"])
	assert.Equal(t, "CMP-1A2B3C4D", got["complaint_id"])
	assert.NotContains(t, got, "call_status", "empty fields are omitted")
}
