package notification

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-session-api/models"
	"storefront-session-api/services/commerce"
)

func TestPushUsesSeverityDuration(t *testing.T) {
	hub := NewHub()

	success := hub.Push(models.SeveritySuccess, "saved")
	errNote := hub.Push(models.SeverityError, "failed")

	assert.InDelta(t, 4.0, errNote.ExpiresAt.Sub(success.ExpiresAt).Seconds(), 0.5,
		"errors linger 4 seconds longer than successes")
}

func TestActiveReturnsOldestFirst(t *testing.T) {
	hub := NewHub()

	first := hub.Push(models.SeverityInfo, "first")
	time.Sleep(5 * time.Millisecond)
	second := hub.Push(models.SeverityInfo, "second")

	active := hub.Active()
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}

func TestDismiss(t *testing.T) {
	hub := NewHub()

	n := hub.Push(models.SeverityInfo, "dismiss me")
	hub.Dismiss(n.ID)

	assert.Empty(t, hub.Active())
}

func TestExpiredNotificationsAreHiddenAndSwept(t *testing.T) {
	hub := NewHub()

	hub.PushWithDuration(models.SeverityInfo, "blink", time.Millisecond)
	hub.Push(models.SeverityInfo, "stay")
	time.Sleep(5 * time.Millisecond)

	active := hub.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "stay", active[0].Message)

	assert.Equal(t, 1, hub.Sweep())
	assert.Equal(t, 0, hub.Sweep(), "second sweep finds nothing")
}

func TestNormalizeValidationErrorFlattensFields(t *testing.T) {
	err := &commerce.APIError{
		Kind:    commerce.ErrKindValidation,
		Message: "invalid request",
		Fields: map[string][]string{
			"email": {"is taken"},
			"name":  {"too short", "contains digits"},
		},
	}

	assert.Equal(t, "email: is taken; name: too short, contains digits", Normalize(err))
}

func TestNormalizeAPIErrorMessage(t *testing.T) {
	err := &commerce.APIError{Kind: commerce.ErrKindTransient, Message: "the store service is unavailable"}
	assert.Equal(t, "the store service is unavailable", Normalize(err))
}

func TestNormalizePlainError(t *testing.T) {
	assert.Equal(t, "boom", Normalize(errors.New("boom")))
}

func TestNormalizeFallback(t *testing.T) {
	assert.Equal(t, "An error occurred", Normalize(nil))
	assert.Equal(t, "An error occurred", Normalize(&commerce.APIError{Kind: commerce.ErrKindTransient}))
	assert.Equal(t, "An error occurred", Normalize(errors.New("")))
}

func TestErrorPushesNormalizedMessage(t *testing.T) {
	hub := NewHub()

	n := hub.Error(&commerce.APIError{Kind: commerce.ErrKindAuth, Message: "authentication required"})

	assert.Equal(t, models.SeverityError, n.Severity)
	assert.Equal(t, "authentication required", n.Message)
}
