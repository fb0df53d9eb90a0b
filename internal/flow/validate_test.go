package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosuda/intake/internal/flow"
)

func TestValidBatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "digits", input: "77", want: "77", ok: true},
		{name: "spoken words", input: "batch seventy seven", want: "batch seventy seven", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "whitespace only", input: "   ", ok: false},
		{name: "i dont know lowercase", input: "i don't know", ok: false},
		{name: "i dont know mixed case", input: "I Don't KNOW", ok: false},
		{name: "i dont know padded", input: "  I don't know  ", ok: false},
		{name: "contains but not equal", input: "I don't know, maybe 12", want: "I don't know, maybe 12", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := flow.ValidBatch(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane Doe", flow.NormalizeName("Jane Doe"))
	assert.Equal(t, "Unknown", flow.NormalizeName(""))
	assert.Equal(t, "Unknown", flow.NormalizeName("   "))
}

func TestResolveType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		digit  string
		speech string
		want   string
	}{
		{name: "digit 1", digit: "1", want: "Billing"},
		{name: "digit 2", digit: "2", want: "Service"},
		{name: "digit 3", digit: "3", want: "Safety"},
		{name: "digit 4", digit: "4", want: "Harassment"},
		{name: "digit wins over speech", digit: "1", speech: "service", want: "Billing"},
		{name: "unmapped digit falls back to speech", digit: "9", speech: "Leaky pipe", want: "Leaky pipe"},
		{name: "speech only", speech: "billing problem", want: "billing problem"},
		{name: "nothing usable", digit: "9", speech: "  ", want: "Other"},
		{name: "empty everything", want: "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, flow.ResolveType(tt.digit, tt.speech))
		})
	}
}
