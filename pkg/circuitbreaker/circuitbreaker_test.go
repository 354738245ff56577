package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProbe = errors.New("probe failed")

func failing(ctx context.Context) error { return errProbe }
func succeeding(ctx context.Context) error { return nil }

func TestExecute_StartsClosed(t *testing.T) {
	cb := New("test")

	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), succeeding))
}

func TestExecute_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(context.Background(), failing), errProbe)
	}

	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(context.Background(), failing)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestExecute_SuccessResetsFailureStreak(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))

	_ = cb.Execute(context.Background(), failing)
	_ = cb.Execute(context.Background(), failing)
	_ = cb.Execute(context.Background(), succeeding)
	_ = cb.Execute(context.Background(), failing)
	_ = cb.Execute(context.Background(), failing)

	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_HalfOpenProbesCloseCircuit(t *testing.T) {
	cb := New("test", WithFailureThreshold(1), WithTimeout(time.Millisecond))

	require.ErrorIs(t, cb.Execute(context.Background(), failing), errProbe)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(5 * time.Millisecond)

	// Default SuccessThreshold is 2: two sequential probes close the circuit.
	require.NoError(t, cb.Execute(context.Background(), succeeding))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(context.Background(), succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_HalfOpenFailureReopens(t *testing.T) {
	cb := New("test", WithFailureThreshold(1), WithTimeout(time.Millisecond))

	require.ErrorIs(t, cb.Execute(context.Background(), failing), errProbe)
	time.Sleep(5 * time.Millisecond)

	require.ErrorIs(t, cb.Execute(context.Background(), failing), errProbe)
	assert.Equal(t, StateOpen, cb.State())
}

func TestExecute_IsFailureHookExcludesErrors(t *testing.T) {
	benign := errors.New("handle not found")
	cb := New("test",
		WithFailureThreshold(1),
		WithIsFailure(func(err error) bool {
			return !errors.Is(err, benign)
		}),
	)

	for i := 0; i < 5; i++ {
		err := cb.Execute(context.Background(), func(ctx context.Context) error {
			return benign
		})
		assert.ErrorIs(t, err, benign)
	}

	// Excluded errors never trip the breaker.
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb := New("test",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	)

	_ = cb.Execute(context.Background(), failing)

	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestReset_ReturnsToClosed(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))

	_ = cb.Execute(context.Background(), failing)
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, Counts{}, cb.Counts())
}

func TestCounts_TrackTotals(t *testing.T) {
	cb := New("test", WithFailureThreshold(10))

	_ = cb.Execute(context.Background(), succeeding)
	_ = cb.Execute(context.Background(), succeeding)
	_ = cb.Execute(context.Background(), failing)

	counts := cb.Counts()
	assert.Equal(t, 3, counts.Requests)
	assert.Equal(t, 2, counts.TotalSuccesses)
	assert.Equal(t, 1, counts.TotalFailures)
	assert.Equal(t, 1, counts.ConsecutiveFailures)
}
