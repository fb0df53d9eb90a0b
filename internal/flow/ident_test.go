package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosuda/intake/internal/flow"
)

func TestNewComplaintIDFormat(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		assert.Regexp(t, complaintIDPattern, flow.NewComplaintID())
	}
}

func TestNewComplaintIDUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := flow.NewComplaintID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
