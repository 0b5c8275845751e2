package clients

import (
	"sync"
	"time"
)

// State is the position of a circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration

	// Probes is both the number of concurrent probe requests allowed while
	// half-open and the number of successes needed to close again.
	Probes int
}

// CircuitBreaker stops calls to a receiver that keeps failing.
//
//	closed    --MaxFailures in a row-->  open
//	open      --Cooldown elapsed------>  half-open
//	half-open --Probes successes------>  closed
//	half-open --any failure----------->  open
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	streak   int // failures while closed, successes while half-open
	inFlight int // probes while half-open
	openedAt time.Time
	onChange func(from, to State)
}

// NewCircuitBreaker creates a closed circuit breaker. Non-positive limits are
// raised to one.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.Probes = max(cfg.Probes, 1)

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run, on its own goroutine, after each transition.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	cb.onChange = fn
	cb.mu.Unlock()
}

// Acquire asks to send one request. It returns ErrCircuitOpen when the
// request must not be sent; otherwise the caller reports the outcome with
// Release.
func (cb *CircuitBreaker) Acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.cfg.Cooldown {
			return ErrCircuitOpen
		}

		cb.moveTo(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.inFlight >= cb.cfg.Probes {
			return ErrCircuitOpen
		}

		cb.inFlight++
	}

	return nil
}

// Release reports the outcome of a request admitted by Acquire.
func (cb *CircuitBreaker) Release(ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		if ok {
			cb.streak = 0
			return
		}

		cb.streak++
		if cb.streak >= cb.cfg.MaxFailures {
			cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.inFlight = max(cb.inFlight-1, 0)

		if !ok {
			cb.moveTo(StateOpen)
			return
		}

		cb.streak++
		if cb.streak >= cb.cfg.Probes {
			cb.moveTo(StateClosed)
		}
	case StateOpen:
		// A request admitted before the circuit opened.
	}
}

// State returns the current state without advancing an elapsed cooldown.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// moveTo must be called with mu held.
func (cb *CircuitBreaker) moveTo(to State) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	cb.streak = 0
	cb.inFlight = 0

	if to == StateOpen {
		cb.openedAt = cb.now()
	}

	if fn := cb.onChange; fn != nil {
		go fn(from, to)
	}
}
