package mail

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("mail circuit breaker open")

type ProtectedConfig struct {
	Timeout          time.Duration // hard timeout per send
	FailureThreshold int           // consecutive failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int
}

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Observer records each send, typically as an external-call metric.
type Observer interface {
	ObserveExternal(service string, fn func() error) error
}

// Protected wraps a Mailer with a per-send timeout and a circuit breaker so a
// dead SMTP server fails fast instead of stalling password resets.
type Protected struct {
	inner Mailer
	cfg   ProtectedConfig
	obs   Observer
	now   func() time.Time

	mu                  sync.Mutex
	state               state
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
}

func NewProtected(inner Mailer, cfg ProtectedConfig, obs Observer) *Protected {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &Protected{inner: inner, cfg: cfg, obs: obs, now: time.Now}
}

func (p *Protected) Send(ctx context.Context, msg Message) error {
	if !p.allowRequest() {
		return ErrCircuitOpen
	}

	sendCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	send := func() error { return p.inner.Send(sendCtx, msg) }

	var err error
	if p.obs != nil {
		err = p.obs.ObserveExternal("smtp", send)
	} else {
		err = send()
	}

	p.afterRequest(err)

	return err
}

func (p *Protected) allowRequest() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateOpen:
		if p.now().Sub(p.openedAt) < p.cfg.Cooldown {
			return false
		}
		p.state = stateHalfOpen
		p.halfOpenInFlight = 1
		return true
	case stateHalfOpen:
		if p.halfOpenInFlight >= p.cfg.HalfOpenMaxCalls {
			return false
		}
		p.halfOpenInFlight++
		return true
	default:
		return true
	}
}

func (p *Protected) afterRequest(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == stateHalfOpen && p.halfOpenInFlight > 0 {
		p.halfOpenInFlight--
	}

	if err == nil {
		p.consecutiveFailures = 0
		p.state = stateClosed
		return
	}

	p.consecutiveFailures++

	// a failed trial call reopens immediately
	if p.state == stateHalfOpen || p.consecutiveFailures >= p.cfg.FailureThreshold {
		p.state = stateOpen
		p.openedAt = p.now()
	}
}
