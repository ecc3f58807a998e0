package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchsim/branchsim/sim/dist"
)

func newTestStation(t *testing.T, sampler dist.ContinuousSampler) (*Station, *SimClock, *EventList) {
	t.Helper()
	clock := NewSimClock()
	events := NewEventList()
	return NewStation("teller1", sampler, clock, events, StationKind(testDeparture, 0)), clock, events
}

func TestStation_Averages_ZeroBeforeFirstService(t *testing.T) {
	s, _, _ := newTestStation(t, dist.Constant(1))

	assert.Equal(t, 0, s.Served())
	assert.Equal(t, 0.0, s.AverageServiceTime())
	assert.Equal(t, 0.0, s.AverageWaitTime())
}

func TestStation_OneCustomer_AveragesEqualWaitAndService(t *testing.T) {
	// GIVEN a customer who joins at t=1 and starts service at t=3
	s, clock, events := newTestStation(t, dist.Constant(4))
	require.NoError(t, clock.AdvanceTo(1))
	s.Enqueue(&Customer{ID: 1})
	require.NoError(t, clock.AdvanceTo(3))

	// WHEN service begins
	require.NoError(t, s.BeginService())

	// THEN a departure is scheduled at 3 + 4
	require.Equal(t, 1, events.Len())
	ev, _ := events.RemoveNext()
	assert.Equal(t, 7.0, ev.Time())
	assert.Equal(t, s.Kind(), ev.Kind())
	assert.True(t, s.IsBusy())

	// WHEN the departure fires
	require.NoError(t, clock.AdvanceTo(ev.Time()))
	c, err := s.CompleteService()

	// THEN the averages equal the single wait (2) and service (4)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.False(t, s.IsBusy())
	assert.Equal(t, 1, s.Served())
	assert.Equal(t, 2.0, s.AverageWaitTime())
	assert.Equal(t, 4.0, s.AverageServiceTime())
}

func TestStation_BeginService_Busy_Fails(t *testing.T) {
	s, _, _ := newTestStation(t, dist.Constant(1))
	s.Enqueue(&Customer{ID: 1})
	s.Enqueue(&Customer{ID: 2})
	require.NoError(t, s.BeginService())

	err := s.BeginService()
	assert.True(t, errors.Is(err, ErrStationBusy), "got %v", err)
}

func TestStation_BeginService_EmptyQueue_Fails(t *testing.T) {
	s, _, events := newTestStation(t, dist.Constant(1))

	err := s.BeginService()

	assert.True(t, errors.Is(err, ErrEmptyStationQueue), "got %v", err)
	assert.Equal(t, 0, events.Len())
}

func TestStation_CompleteService_Idle_Fails(t *testing.T) {
	s, _, _ := newTestStation(t, dist.Constant(1))

	_, err := s.CompleteService()

	assert.True(t, errors.Is(err, ErrStationIdle), "got %v", err)
}

func TestStation_QueueLength_CountsCustomerInService(t *testing.T) {
	s, _, _ := newTestStation(t, dist.Constant(1))
	s.Enqueue(&Customer{ID: 1})
	s.Enqueue(&Customer{ID: 2})
	require.NoError(t, s.BeginService())

	assert.Equal(t, 2, s.QueueLength())
	snap := s.SnapshotQueue()
	require.Len(t, snap, 2)
	assert.Equal(t, 1, snap[0].ID)
}

func TestStation_BeginService_InvalidSamples_Fails(t *testing.T) {
	// GIVEN a sampler that only returns NaN
	s, _, events := newTestStation(t, dist.Constant(math.NaN()))
	s.Enqueue(&Customer{ID: 1})

	// WHEN service begins
	err := s.BeginService()

	// THEN the sample is rejected twice and nothing is scheduled
	assert.True(t, errors.Is(err, ErrInvalidSample), "got %v", err)
	assert.False(t, s.IsBusy())
	assert.Equal(t, 0, events.Len())
}

func TestStation_Statistics_NonDecreasing(t *testing.T) {
	s, clock, events := newTestStation(t, dist.NewSequence(2, 1, 3))
	for id := 1; id <= 3; id++ {
		s.Enqueue(&Customer{ID: id})
	}

	prevService, prevWait := 0.0, 0.0
	for s.HasWaiting() {
		require.NoError(t, s.BeginService())
		ev, err := events.RemoveNext()
		require.NoError(t, err)
		require.NoError(t, clock.AdvanceTo(ev.Time()))
		_, err = s.CompleteService()
		require.NoError(t, err)

		assert.GreaterOrEqual(t, s.TotalServiceTime(), prevService)
		assert.GreaterOrEqual(t, s.TotalWaitTime(), prevWait)
		prevService, prevWait = s.TotalServiceTime(), s.TotalWaitTime()
	}

	assert.Equal(t, 3, s.Served())
	assert.Equal(t, 6.0, s.TotalServiceTime())
	// Customer 2 waits 2, customer 3 waits 2+1.
	assert.Equal(t, 5.0, s.TotalWaitTime())
}
