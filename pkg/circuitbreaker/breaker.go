package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

type Config struct {
	// MaxRequests bounds concurrent probes while half-open.
	MaxRequests      uint32
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
	Logger           *zap.Logger
}

// Breaker trips open after FailureThreshold consecutive failures, probes
// again after Timeout, and closes after SuccessThreshold consecutive
// successes while half-open.
type Breaker struct {
	name             string
	maxRequests      uint32
	timeout          time.Duration
	failureThreshold uint32
	successThreshold uint32
	logger           *zap.Logger

	mu         sync.Mutex
	state      State
	requests   uint32
	consecSucc uint32
	consecFail uint32
	openedAt   time.Time
}

func New(name string, cfg Config) *Breaker {
	b := &Breaker{
		name:             name,
		maxRequests:      cfg.MaxRequests,
		timeout:          cfg.Timeout,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		logger:           cfg.Logger,
	}
	if b.maxRequests == 0 {
		b.maxRequests = 1
	}
	if b.timeout == 0 {
		b.timeout = 60 * time.Second
	}
	if b.failureThreshold == 0 {
		b.failureThreshold = 5
	}
	if b.successThreshold == 0 {
		b.successThreshold = 2
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

func (b *Breaker) Execute(ctx context.Context, fn func() error) error {
	if err := b.beforeRequest(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.afterRequest(false)
			panic(r)
		}
	}()

	err := fn()
	b.afterRequest(err == nil)
	return err
}

func (b *Breaker) beforeRequest() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(time.Now()) {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.requests >= b.maxRequests {
			return ErrTooManyRequests
		}
	}
	b.requests++
	return nil
}

func (b *Breaker) afterRequest(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentState(now)
	if b.requests > 0 {
		b.requests--
	}

	if success {
		b.consecSucc++
		b.consecFail = 0
		if state == StateHalfOpen && b.consecSucc >= b.successThreshold {
			b.setState(StateClosed, now)
		}
		return
	}

	b.consecFail++
	b.consecSucc = 0
	if state == StateHalfOpen || (state == StateClosed && b.consecFail >= b.failureThreshold) {
		b.setState(StateOpen, now)
	}
}

func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.timeout {
		b.setState(StateHalfOpen, now)
	}
	return b.state
}

func (b *Breaker) setState(state State, now time.Time) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	b.requests = 0
	b.consecSucc = 0
	if state == StateOpen {
		b.openedAt = now
	} else {
		b.consecFail = 0
	}

	b.logger.Info("circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", prev.String()),
		zap.String("to", state.String()),
	)
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}
