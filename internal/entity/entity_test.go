package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestURL_State(t *testing.T) {
	deletedAt := time.Now()

	tests := []struct {
		name   string
		url    URL
		state  State
		active bool
	}{
		{name: "active", url: URL{Alias: "abc123"}, state: StateActive, active: true},
		{name: "deleted", url: URL{Alias: "abc123", DeletedAt: &deletedAt}, state: StateDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.state, tt.url.State())
			assert.Equal(t, tt.active, tt.url.IsActive())
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "redirect", OutcomeRedirect.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "rate_limited", OutcomeRateLimited.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
