// Package pool bounds concurrent use of agent sessions. Sessions hold a
// headless browser each, so the pool keeps at most N alive, recycles them
// after a fixed number of uses to cap per-session memory growth, and
// reaps sessions that sit idle once load subsides.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/slipstream-bet/converter/internal/pkg/agent"
)

// ErrExhausted is returned by Acquire when every slot is busy. It is a
// retryable condition: back off or fail the request, do not spin.
var ErrExhausted = errors.New("browser pool exhausted")

// ErrClosed is returned by Acquire after Shutdown.
var ErrClosed = errors.New("browser pool is shut down")

// Config tunes the pool. Zero values select the defaults in brackets.
type Config struct {
	MaxInstances    int           // pool capacity [3]
	MaxUsage        int           // uses before a session is recycled [50]
	MaxMemoryMB     uint64        // advisory heap ceiling for MemoryPressure [2048]
	CleanupInterval time.Duration // min interval between idle sweeps [5m]
	IdleTTL         time.Duration // idle age at which a session is destroyed [30m]
}

func (c Config) withDefaults() Config {
	if c.MaxInstances <= 0 {
		c.MaxInstances = 3
	}
	if c.MaxUsage <= 0 {
		c.MaxUsage = 50
	}
	if c.MaxMemoryMB == 0 {
		c.MaxMemoryMB = 2048
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = 5 * time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 30 * time.Minute
	}
	return c
}

// Resource is one pooled agent session. Workers hold it only between
// Acquire and Release.
type Resource struct {
	ID string

	runner     agent.Runner
	inUse      bool
	createdAt  time.Time
	lastUsed   time.Time
	usageCount int
}

// Run executes one task on the session.
func (r *Resource) Run(ctx context.Context, task string) (string, error) {
	return r.runner.Run(ctx, task)
}

// Pool manages a fixed-capacity set of agent sessions. One mutex guards
// the instance map and idle list; critical sections are O(1) map and
// slice operations so contention stays brief. Session creation and
// destruction happen outside the lock.
type Pool struct {
	cfg     Config
	factory agent.Factory

	mu          sync.Mutex
	instances   map[string]*Resource
	idle        []string
	seq         int
	lastCleanup time.Time
	closed      bool
}

// New builds a pool over the given session factory.
func New(cfg Config, factory agent.Factory) *Pool {
	return &Pool{
		cfg:       cfg.withDefaults(),
		factory:   factory,
		instances: make(map[string]*Resource),
	}
}

// Acquire returns an idle session, or creates one if capacity allows.
// When every slot is busy it fails immediately with ErrExhausted; callers
// decide whether to retry or reject.
func (p *Pool) Acquire(ctx context.Context) (*Resource, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}

	for len(p.idle) > 0 {
		id := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		r, ok := p.instances[id]
		if !ok {
			continue // destroyed by cleanup while on the idle list
		}
		r.inUse = true
		r.lastUsed = time.Now()
		p.mu.Unlock()
		return r, nil
	}

	if len(p.instances) >= p.cfg.MaxInstances {
		p.mu.Unlock()
		return nil, ErrExhausted
	}

	// Reserve the slot under the lock, create the session outside it.
	p.seq++
	now := time.Now()
	r := &Resource{
		ID:        fmt.Sprintf("browser_%d_%d", p.seq, now.Unix()),
		inUse:     true,
		createdAt: now,
		lastUsed:  now,
	}
	p.instances[r.ID] = r
	p.mu.Unlock()

	runner, err := p.factory.New(ctx)
	if err != nil {
		p.mu.Lock()
		delete(p.instances, r.ID)
		p.mu.Unlock()
		return nil, fmt.Errorf("create browser session: %w", err)
	}

	// A shutdown may have raced the creation and already untracked the
	// slot; the session must not escape a closed pool.
	p.mu.Lock()
	if p.closed {
		delete(p.instances, r.ID)
		p.mu.Unlock()
		if cerr := runner.Close(); cerr != nil {
			slog.Warn("Failed to close browser session", "id", r.ID, "reason", "shutdown", "error", cerr)
		}
		return nil, ErrClosed
	}
	r.runner = runner
	p.mu.Unlock()

	slog.Info("Created browser session", "id", r.ID)
	return r, nil
}

// Release returns a session to the pool. A session that has reached its
// usage threshold is destroyed instead of being reused, which bounds the
// memory the agent's browser can accumulate.
func (p *Pool) Release(r *Resource) {
	if r == nil {
		return
	}

	p.mu.Lock()
	if _, tracked := p.instances[r.ID]; !tracked {
		p.mu.Unlock()
		return // already destroyed by shutdown
	}
	r.inUse = false
	r.usageCount++
	r.lastUsed = time.Now()

	if r.usageCount >= p.cfg.MaxUsage {
		delete(p.instances, r.ID)
		p.mu.Unlock()
		p.destroy(r, "recycled")
		return
	}

	p.idle = append(p.idle, r.ID)
	p.mu.Unlock()
}

// CleanupIdle destroys sessions idle longer than IdleTTL. It self-throttles
// to one sweep per CleanupInterval; workers call it opportunistically after
// each task, so under continuous load it may not run at all; idle cleanup
// only matters once load subsides.
func (p *Pool) CleanupIdle() {
	p.mu.Lock()
	now := time.Now()
	if now.Sub(p.lastCleanup) < p.cfg.CleanupInterval {
		p.mu.Unlock()
		return
	}
	p.lastCleanup = now

	var expired []*Resource
	remaining := p.idle[:0]
	for _, id := range p.idle {
		r, ok := p.instances[id]
		if !ok {
			continue
		}
		if now.Sub(r.lastUsed) >= p.cfg.IdleTTL {
			delete(p.instances, id)
			expired = append(expired, r)
			continue
		}
		remaining = append(remaining, id)
	}
	p.idle = remaining
	p.mu.Unlock()

	for _, r := range expired {
		p.destroy(r, "idle timeout")
	}
}

// MemoryPressure reports whether the process heap exceeds the configured
// ceiling. Advisory only: callers use it to throttle new acquisitions,
// the pool itself does not enforce it.
func (p *Pool) MemoryPressure() bool {
	return p.MemoryUsageMB() > float64(p.cfg.MaxMemoryMB)
}

// MemoryUsageMB returns the current process heap allocation in megabytes.
func (p *Pool) MemoryUsageMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / 1024 / 1024
}

// Capacity returns the configured maximum number of sessions.
func (p *Pool) Capacity() int {
	return p.cfg.MaxInstances
}

// Counts returns the number of in-use and total tracked sessions.
func (p *Pool) Counts() (active, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.instances {
		if r.inUse {
			active++
		}
	}
	return active, len(p.instances)
}

// Shutdown destroys every tracked session, busy or idle, and rejects all
// further acquisitions.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	all := make([]*Resource, 0, len(p.instances))
	for _, r := range p.instances {
		all = append(all, r)
	}
	p.instances = make(map[string]*Resource)
	p.idle = nil
	p.mu.Unlock()

	for _, r := range all {
		p.destroy(r, "shutdown")
	}
	slog.Info("Browser pool shut down", "destroyed", len(all))
}

// destroy closes the underlying session best-effort. The resource is
// already untracked, so a stuck or failing close cannot leak a slot or
// block other pool operations.
func (p *Pool) destroy(r *Resource, reason string) {
	if r.runner == nil {
		return
	}
	if err := r.runner.Close(); err != nil {
		slog.Warn("Failed to close browser session", "id", r.ID, "reason", reason, "error", err)
		return
	}
	slog.Info("Destroyed browser session", "id", r.ID, "reason", reason, "uses", r.usageCount)
}
