package hints

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoProblem is returned when hints are requested before Reset.
	ErrNoProblem = errors.New("no active problem")

	// ErrProblemChanged is returned when the problem was replaced while its
	// hint list was being fetched. The fetched list is discarded.
	ErrProblemChanged = errors.New("problem changed while fetching hints")
)

// State is the reveal state of the current problem's hint list.
type State int

const (
	NoHintsFetched State = iota
	Revealing
	AllRevealed
)

func (s State) String() string {
	switch s {
	case NoHintsFetched:
		return "no_hints_fetched"
	case Revealing:
		return "revealing"
	case AllRevealed:
		return "all_revealed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// View is a point-in-time copy of the sequencer state.
type View struct {
	// ProblemID is the problem these hints belong to.
	ProblemID string `json:"problemId,omitempty"`

	State    State    `json:"state"`
	Hints    []string `json:"hints"` // revealed hints only
	Revealed int      `json:"revealed"`
	Total    int      `json:"total"`
}

// Sequencer discloses the hint list of one problem at a time. The list is
// fetched lazily, at most once per problem; concurrent requests while the
// fetch is in flight share it.
//
// The reveal count only grows within a problem and never exceeds the list
// length. Reset starts over for a new problem.
type Sequencer struct {
	fetcher Fetcher
	group   singleflight.Group

	mu      sync.Mutex
	gen     uint64
	active  bool
	req     HintRequest
	fetched bool
	hints   []string
	count   int
}

// NewSequencer creates a sequencer with no active problem.
func NewSequencer(fetcher Fetcher) *Sequencer {
	return &Sequencer{fetcher: fetcher}
}

// Reset points the sequencer at a new problem in the NoHintsFetched state.
func (s *Sequencer) Reset(req HintRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.active = true
	s.req = req
	s.fetched = false
	s.hints = nil
	s.count = 0
}

// Clear drops the current problem.
func (s *Sequencer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.active = false
	s.req = HintRequest{}
	s.fetched = false
	s.hints = nil
	s.count = 0
}

// RequestHint reveals the next hint. The first call fetches the list and
// reveals one hint (none for an empty list). Once everything is revealed
// it is a no-op. On error the state is unchanged.
func (s *Sequencer) RequestHint(ctx context.Context) (View, error) {
	gen, fetchedNow, err := s.ensureFetched(ctx)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return View{}, ErrProblemChanged
	}
	if !fetchedNow && s.count < len(s.hints) {
		s.count++
	}
	return s.viewLocked(), nil
}

// RequestSolution fetches the list if needed and reveals all of it.
func (s *Sequencer) RequestSolution(ctx context.Context) (View, error) {
	gen, _, err := s.ensureFetched(ctx)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return View{}, ErrProblemChanged
	}
	s.count = len(s.hints)
	return s.viewLocked(), nil
}

// View returns the current state.
func (s *Sequencer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// ensureFetched makes sure the current problem's list is loaded and
// returns the problem generation it belongs to. fetchedNow reports whether
// this call waited on a fetch, in which case the first reveal already
// happened as part of that fetch.
func (s *Sequencer) ensureFetched(ctx context.Context) (gen uint64, fetchedNow bool, err error) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return 0, false, ErrNoProblem
	}
	gen = s.gen
	if s.fetched {
		s.mu.Unlock()
		return gen, false, nil
	}
	req := s.req
	s.mu.Unlock()

	// The shared fetch outlives any single caller; each caller stops
	// waiting when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		return nil, s.fetch(fetchCtx, gen, req)
	})
	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, false, res.Err
		}
	}
	return gen, true, nil
}

func (s *Sequencer) fetch(ctx context.Context, gen uint64, req HintRequest) error {
	s.mu.Lock()
	switch {
	case s.gen != gen:
		s.mu.Unlock()
		return ErrProblemChanged
	case s.fetched:
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	hints, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrProblemChanged
	}
	if !s.fetched {
		s.hints = slices.Clone(hints)
		s.fetched = true
		s.count = min(1, len(s.hints))
	}
	return nil
}

func (s *Sequencer) viewLocked() View {
	v := View{
		ProblemID: s.req.ProblemID,
		Hints:     slices.Clone(s.hints[:s.count]),
		Revealed: s.count,
		Total:    len(s.hints),
	}
	switch {
	case !s.fetched:
		v.State = NoHintsFetched
	case s.count >= len(s.hints):
		v.State = AllRevealed
	default:
		v.State = Revealing
	}
	if v.Hints == nil {
		v.Hints = []string{}
	}
	return v
}
