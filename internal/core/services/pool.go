package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/allthriveai/showcase/internal/core/ports/driving"
	"github.com/allthriveai/showcase/internal/logger"
)

// ErrPoolStopped indicates a submit after the pool was stopped.
var ErrPoolStopped = errors.New("ingestion pool stopped")

// DefaultIngestTimeout is the per-ingestion deadline applied by the pool.
const DefaultIngestTimeout = 2 * time.Minute

// PoolResult pairs one request with its outcome.
type PoolResult struct {
	Request driving.IngestRequest
	Result  *driving.IngestResult
	Err     error
}

// Pool is a bounded worker pool for batch ingestion. Each request runs as
// one task under its own deadline; workers fan out, results fan in on a
// single channel.
type Pool struct {
	ingestor driving.Ingestor
	workers  int
	timeout  time.Duration

	jobs    chan driving.IngestRequest
	results chan PoolResult
	done    chan struct{}

	mu      sync.Mutex
	running bool
	senders sync.WaitGroup
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given worker count. Non-positive counts
// and timeouts select sane defaults.
func NewPool(ingestor driving.Ingestor, workers int, timeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = DefaultIngestTimeout
	}
	return &Pool{
		ingestor: ingestor,
		workers:  workers,
		timeout:  timeout,
		jobs:     make(chan driving.IngestRequest),
		results:  make(chan PoolResult),
		done:     make(chan struct{}),
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Submit queues one request. It blocks while all workers are busy and
// fails once the pool is stopped or the context is done.
func (p *Pool) Submit(ctx context.Context, req driving.IngestRequest) error {
	// Registering as a sender under the same lock that Stop flips running
	// under means Stop cannot close the queue while a send is pending.
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	p.senders.Add(1)
	p.mu.Unlock()
	defer p.senders.Done()

	select {
	case p.jobs <- req:
		return nil
	case <-p.done:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns the fan-in channel. It is closed after Stop once every
// in-flight ingestion has finished.
func (p *Pool) Results() <-chan PoolResult {
	return p.results
}

// Stop unblocks pending submits, closes the queue, waits for in-flight
// ingestions to drain, then closes the results channel.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	// Every sender has either finished its send or will take the done
	// branch; only then is closing the queue safe.
	close(p.done)
	p.senders.Wait()
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// worker processes queued requests until the queue closes or the context
// is cancelled.
func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-p.jobs:
			if !ok {
				return
			}

			jobCtx, cancel := context.WithTimeout(ctx, p.timeout)
			result, err := p.ingestor.Ingest(jobCtx, req)
			cancel()

			if err != nil {
				logger.Warn("ingestion of %s failed: %v", req.RepositoryURL, err)
			}

			select {
			case p.results <- PoolResult{Request: req, Result: result, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}
