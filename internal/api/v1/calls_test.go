package v1

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/intake/internal/domain"
)

type mockSessionReader struct {
	sessions map[string]*domain.Session
}

func (m *mockSessionReader) Get(callID string) (*domain.Session, bool) {
	s, ok := m.sessions[callID]
	return s, ok
}

func (m *mockSessionReader) Len() int { return len(m.sessions) }

func TestGetCall(t *testing.T) {
	t.Parallel()

	reader := &mockSessionReader{sessions: map[string]*domain.Session{
		"CA-1": {
			CallID:      "CA-1",
			State:       domain.StateAskType,
			BatchNumber: "77",
			CallerName:  "Jane Doe",
		},
	}}

	_, api := humatest.New(t)
	RegisterCallRoutes(api, reader)

	resp := api.Get("/calls/CA-1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"state":"ask_type"`)
	assert.Contains(t, resp.Body.String(), "Jane Doe")
}

func TestGetCallNotFound(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	RegisterCallRoutes(api, &mockSessionReader{sessions: map[string]*domain.Session{}})

	resp := api.Get("/calls/CA-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCallStats(t *testing.T) {
	t.Parallel()

	reader := &mockSessionReader{sessions: map[string]*domain.Session{
		"CA-1": {CallID: "CA-1"},
		"CA-2": {CallID: "CA-2"},
	}}

	_, api := humatest.New(t)
	RegisterCallRoutes(api, reader)

	resp := api.Get("/calls")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"live_sessions":2`)
}
