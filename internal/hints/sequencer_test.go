package hints

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHintRequest() HintRequest {
	return HintRequest{
		GradeLevel:       "5th Grade",
		Topic:            "Multiplication",
		DifficultyLevel:  "Basic",
		ProblemStatement: "What is 12 x 4?",
	}
}

// countingFetcher returns a fixed list and counts calls.
type countingFetcher struct {
	hints []string
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, _ HintRequest) ([]string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hints, nil
}

func TestSequencer_RevealsInOrder(t *testing.T) {
	f := &countingFetcher{hints: []string{"a", "b", "c"}}
	s := NewSequencer(f)
	s.Reset(testHintRequest())

	assert.Equal(t, NoHintsFetched, s.View().State)

	var counts []int
	for range 4 {
		v, err := s.RequestHint(t.Context())
		require.NoError(t, err)
		counts = append(counts, v.Revealed)
	}

	assert.Equal(t, []int{1, 2, 3, 3}, counts)
	v := s.View()
	assert.Equal(t, AllRevealed, v.State)
	assert.Equal(t, []string{"a", "b", "c"}, v.Hints)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestSequencer_RevealingState(t *testing.T) {
	s := NewSequencer(&countingFetcher{hints: []string{"a", "b"}})
	s.Reset(testHintRequest())

	v, err := s.RequestHint(t.Context())
	require.NoError(t, err)
	assert.Equal(t, Revealing, v.State)
	assert.Equal(t, []string{"a"}, v.Hints)
	assert.Equal(t, 2, v.Total)
}

func TestSequencer_ViewCarriesProblemID(t *testing.T) {
	s := NewSequencer(&countingFetcher{hints: []string{"a"}})
	req := testHintRequest()
	req.ProblemID = "p-7"
	s.Reset(req)

	v, err := s.RequestHint(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "p-7", v.ProblemID)

	s.Clear()
	assert.Empty(t, s.View().ProblemID)
}

func TestSequencer_EmptyList(t *testing.T) {
	s := NewSequencer(&countingFetcher{hints: nil})
	s.Reset(testHintRequest())

	v, err := s.RequestHint(t.Context())
	require.NoError(t, err)
	assert.Equal(t, AllRevealed, v.State)
	assert.Equal(t, 0, v.Revealed)
	assert.Empty(t, v.Hints)
}

func TestSequencer_Solution(t *testing.T) {
	f := &countingFetcher{hints: []string{"a", "b", "c"}}
	s := NewSequencer(f)
	s.Reset(testHintRequest())

	v, err := s.RequestSolution(t.Context())
	require.NoError(t, err)
	assert.Equal(t, AllRevealed, v.State)
	assert.Equal(t, 3, v.Revealed)

	v, err = s.RequestHint(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, v.Revealed)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestSequencer_SolutionAfterHint(t *testing.T) {
	s := NewSequencer(&countingFetcher{hints: []string{"a", "b", "c"}})
	s.Reset(testHintRequest())

	_, err := s.RequestHint(t.Context())
	require.NoError(t, err)
	v, err := s.RequestSolution(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, v.Revealed)
}

func TestSequencer_ErrorLeavesStateUnchanged(t *testing.T) {
	f := &countingFetcher{err: errors.New("service down")}
	s := NewSequencer(f)
	s.Reset(testHintRequest())

	_, err := s.RequestHint(t.Context())
	require.Error(t, err)
	assert.Equal(t, NoHintsFetched, s.View().State)

	// A fresh request retries the fetch.
	f.err = nil
	f.hints = []string{"a"}
	v, err := s.RequestHint(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Revealed)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestSequencer_NoProblem(t *testing.T) {
	s := NewSequencer(&countingFetcher{})
	_, err := s.RequestHint(t.Context())
	assert.ErrorIs(t, err, ErrNoProblem)

	s.Reset(testHintRequest())
	s.Clear()
	_, err = s.RequestSolution(t.Context())
	assert.ErrorIs(t, err, ErrNoProblem)
}

func TestSequencer_ResetClearsHints(t *testing.T) {
	f := &countingFetcher{hints: []string{"a", "b"}}
	s := NewSequencer(f)
	s.Reset(testHintRequest())

	_, err := s.RequestSolution(t.Context())
	require.NoError(t, err)

	s.Reset(testHintRequest())
	v := s.View()
	assert.Equal(t, NoHintsFetched, v.State)
	assert.Equal(t, 0, v.Revealed)
	assert.Equal(t, 0, v.Total)

	v, err = s.RequestHint(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Revealed)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestSequencer_ConcurrentRequestsShareFetch(t *testing.T) {
	f := &countingFetcher{hints: []string{"a", "b", "c"}, gate: make(chan struct{})}
	s := NewSequencer(f)
	s.Reset(testHintRequest())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]View, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.RequestHint(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Let the callers pile up on the in-flight fetch.
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	assert.EqualValues(t, 1, f.calls.Load())
	for _, v := range results {
		assert.LessOrEqual(t, v.Revealed, v.Total)
	}
	assert.Equal(t, 1, s.View().Revealed)
}

func TestSequencer_CancelledCallerDoesNotFailOthers(t *testing.T) {
	f := &countingFetcher{hints: []string{"a", "b"}, gate: make(chan struct{})}
	s := NewSequencer(f)
	s.Reset(testHintRequest())

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := s.RequestHint(ctx)
		first <- err
	}()
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		v   View
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := s.RequestHint(context.Background())
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(f.gate)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 1, got.v.Revealed)
	assert.Equal(t, Revealing, s.View().State)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestSequencer_StaleFetchDiscarded(t *testing.T) {
	f := &countingFetcher{hints: []string{"old"}, gate: make(chan struct{})}
	s := NewSequencer(f)
	s.Reset(testHintRequest())

	errc := make(chan error, 1)
	go func() {
		_, err := s.RequestHint(context.Background())
		errc <- err
	}()

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
	s.Reset(testHintRequest())
	close(f.gate)

	assert.ErrorIs(t, <-errc, ErrProblemChanged)
	assert.Equal(t, NoHintsFetched, s.View().State)
}

func TestState_MarshalText(t *testing.T) {
	b, err := Revealing.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "revealing", string(b))
}
