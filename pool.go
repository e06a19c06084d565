package mdreport

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// AssemblerPool manages a pool of Assembler instances for parallel
// batch processing. Each assembler has its own browser instance,
// enabling true parallelism. Assemblers are created lazily on first
// acquire to avoid startup delay.
type AssemblerPool struct {
	size       int
	opts       []Option
	assemblers []*Assembler
	sem        chan *Assembler
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewAssemblerPool creates a pool with capacity for n Assembler
// instances, each configured with the given options. Assemblers are
// created lazily when acquired, not at pool creation.
func NewAssemblerPool(n int, opts ...Option) *AssemblerPool {
	if n < 1 {
		n = 1
	}

	return &AssemblerPool{
		size:       n,
		opts:       opts,
		assemblers: make([]*Assembler, 0, n),
		sem:        make(chan *Assembler, n),
	}
}

// Acquire gets an assembler from the pool, creating one if needed.
// Blocks if all assemblers are in use.
func (p *AssemblerPool) Acquire() *Assembler {
	// Try to get an existing assembler (non-blocking)
	select {
	case a := <-p.sem:
		return a
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create the new assembler outside the lock
		a := New(p.opts...)

		p.mu.Lock()
		p.assemblers = append(p.assemblers, a)
		p.mu.Unlock()

		return a
	}
	p.mu.Unlock()

	// All assemblers created, wait for one to be released
	return <-p.sem
}

// Release returns an assembler to the pool.
// The lock is held across the send so Close cannot close the channel
// in between; the send never blocks because at most size assemblers
// exist and the buffer has capacity for all of them.
func (p *AssemblerPool) Release(a *Assembler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.sem <- a
}

// Close releases all browser resources.
// Returns an aggregated error if multiple assemblers fail to close.
func (p *AssemblerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	assemblers := p.assemblers
	p.mu.Unlock()

	var errs []error
	for _, a := range assemblers {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *AssemblerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
