package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		ok   bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to waiting skips confirm", StatusPending, StatusWaiting, false},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"pending to no_show", StatusPending, StatusNoShow, false},

		{"confirmed to waiting", StatusConfirmed, StatusWaiting, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed to in_progress skips check-in", StatusConfirmed, StatusInProgress, false},
		{"confirmed to pending goes backwards", StatusConfirmed, StatusPending, false},

		{"waiting to in_progress", StatusWaiting, StatusInProgress, true},
		{"waiting to cancelled", StatusWaiting, StatusCancelled, true},
		{"waiting to no_show", StatusWaiting, StatusNoShow, true},
		{"waiting to completed skips service", StatusWaiting, StatusCompleted, false},

		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, false},
		{"in_progress to no_show", StatusInProgress, StatusNoShow, false},

		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"no_show is terminal", StatusNoShow, StatusConfirmed, false},

		{"unknown from", Status("deleted"), StatusCancelled, false},
		{"unknown to", StatusPending, Status("archived"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var invalid *InvalidTransitionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.from, invalid.From)
			assert.Equal(t, tc.to, invalid.To)
		})
	}
}

func TestTerminalStatusesAllowNothing(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
		assert.Empty(t, AllowedTransitions(s))
	}

	for _, s := range ActiveStatuses() {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
		assert.NotEmpty(t, AllowedTransitions(s))
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusWaiting.IsActive())
	assert.True(t, StatusInProgress.IsActive())

	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusNoShow.IsActive())
	assert.False(t, Status("bogus").IsActive())
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPending, InitialStatus())
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := ValidateTransition(StatusCompleted, StatusCancelled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(StatusCompleted))
	assert.Contains(t, err.Error(), string(StatusCancelled))

	assert.True(t, IsInvalidTransition(err))
	assert.False(t, IsConflict(err))
}
