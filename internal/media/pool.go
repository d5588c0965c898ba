package media

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	scaleUpThreshold   = 0.75
	scaleDownThreshold = 0.30
	deathRecoveryDelay = 5 * time.Second
)

// pool is the worker pool: bounded [minWorkers, maxWorkers], round-robin
// router placement, and CPU-gated auto-scaling. Grounded on the
// startEventWorkers/internalEventWorker and reservePeerSlot CAS pattern
// in the retrieved PufferBlow SFU server: a small fixed set of long-lived
// goroutine workers, sized from runtime capacity, with lifecycle
// recovery instead of a crash taking the whole engine down.
type pool struct {
	mu        sync.Mutex
	workers   []*Worker
	nextID    int
	nextIndex int

	minWorkers int
	maxWorkers int

	isScaling atomic.Bool
}

func newPool(minWorkers, maxWorkers int) (*pool, error) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if minWorkers < 1 {
		minWorkers = 1
	}
	if minWorkers > maxWorkers {
		minWorkers = maxWorkers
	}

	p := &pool{minWorkers: minWorkers, maxWorkers: maxWorkers}

	var wg sync.WaitGroup
	started := atomic.Int32{}
	workers := make([]*Worker, minWorkers)
	for i := 0; i < minWorkers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := newWorker(i)
			workers[i] = w
			started.Add(1)
		}(i)
	}
	wg.Wait()

	if started.Load() == 0 {
		return nil, fmt.Errorf("media: failed to start any worker")
	}
	for _, w := range workers {
		if w != nil {
			p.workers = append(p.workers, w)
		}
	}
	p.nextID = len(p.workers)
	log.Info().Str("module", "media.pool").Int("workers", len(p.workers)).Msg("worker pool started")
	return p, nil
}

// nextWorker assigns a new router via round-robin across the live pool.
func (p *pool) nextWorker() *Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	w := p.workers[p.nextIndex%len(p.workers)]
	p.nextIndex++
	return w
}

func (p *pool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

func (p *pool) snapshot() []*Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Worker, len(p.workers))
	copy(out, p.workers)
	return out
}

// onWorkerDeath removes a dead worker and, if that leaves the pool
// empty, attempts exactly one recovery by spawning a replacement. If the
// pool is still empty after that attempt — a second death racing the
// first — process termination is scheduled so an operator notices
// instead of running a media engine that silently does nothing.
//
// Nothing in this package currently calls this with a real crash signal:
// workers are goroutine shards, not OS processes, so there is no
// supervisor detecting a dead one. It is exercised by tests only, ready
// to wire in if a worker ever gains a failure mode that can kill its
// goroutine out from under the pool.
func (p *pool) onWorkerDeath(dead *Worker, terminate func()) {
	p.mu.Lock()
	for i, w := range p.workers {
		if w == dead {
			p.workers = append(p.workers[:i], p.workers[i+1:]...)
			break
		}
	}
	wasEmptied := len(p.workers) == 0
	p.mu.Unlock()

	log.Warn().Str("module", "media.pool").Int("worker", dead.ID).Msg("worker died")

	if !wasEmptied {
		return
	}

	log.Warn().Str("module", "media.pool").Msg("pool emptied, attempting one recovery")
	replacement := newWorker(p.allocID())

	p.mu.Lock()
	p.workers = append(p.workers, replacement)
	stillEmpty := len(p.workers) == 0
	p.mu.Unlock()

	if stillEmpty {
		log.Error().Str("module", "media.pool").Msg("pool empty after recovery attempt, scheduling termination")
		time.AfterFunc(deathRecoveryDelay, terminate)
	}
}

func (p *pool) allocID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	return id
}

// autoscale runs after every router creation and room closure. Scale-up
// and scale-down are mutually exclusive per pass and guarded by
// isScaling so overlapping triggers never double-act.
func (p *pool) autoscale(scaleDownVictim func(*Worker)) {
	if !p.isScaling.CompareAndSwap(false, true) {
		return
	}
	defer p.isScaling.Store(false)

	workers := p.snapshot()
	if len(workers) == 0 {
		return
	}

	var maxCPU, sumCPU float64
	for _, w := range workers {
		c := w.cpuFraction()
		sumCPU += c
		if c > maxCPU {
			maxCPU = c
		}
	}
	avgCPU := sumCPU / float64(len(workers))

	p.mu.Lock()
	size := len(p.workers)
	p.mu.Unlock()

	switch {
	case maxCPU > scaleUpThreshold && size < p.maxWorkers:
		w := newWorker(p.allocID())
		p.mu.Lock()
		p.workers = append(p.workers, w)
		p.mu.Unlock()
		log.Info().Str("module", "media.pool").Int("worker", w.ID).Float64("max_cpu", maxCPU).Msg("scaled up")

	case avgCPU < scaleDownThreshold && size > p.minWorkers:
		p.mu.Lock()
		if len(p.workers) > p.minWorkers {
			victim := p.workers[len(p.workers)-1]
			p.workers = p.workers[:len(p.workers)-1]
			p.mu.Unlock()
			log.Info().Str("module", "media.pool").Int("worker", victim.ID).Float64("avg_cpu", avgCPU).Msg("scaled down")
			scaleDownVictim(victim)
			return
		}
		p.mu.Unlock()
	}
}
