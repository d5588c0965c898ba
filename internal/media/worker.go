package media

import (
	"runtime"
	"sync"

	"github.com/screenhall/roomctl/internal/domain"
)

// capacityPerWorker is the number of live transports a worker can host
// before it is considered fully loaded on the transport-count signal.
// bytesPerWorkerCapacity is the GetStats() byte-throughput ceiling past
// which a worker is considered fully loaded on the throughput signal.
// There is no OS-level per-goroutine CPU accounting in Go, so load is the
// max of two real signals, live transport count and pion/webrtc's
// per-PeerConnection GetStats() byte counters, scaled up slightly by
// runtime.NumGoroutine() (see goroutinePressureCap).
const (
	capacityPerWorker      = 48
	bytesPerWorkerCapacity = 64 * 1024 * 1024
)

// Worker is a goroutine-owned shard of the media engine's router pool.
// Workers are logical slots within one process, not OS processes: load
// is sharded across slots, not forked into separate processes.
type Worker struct {
	ID int

	mu      sync.RWMutex
	routers map[domain.RoomID]*Router
}

func newWorker(id int) *Worker {
	return &Worker{
		ID:      id,
		routers: make(map[domain.RoomID]*Router),
	}
}

func (w *Worker) addRouter(r *Router) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.routers[r.RoomID] = r
}

func (w *Worker) removeRouter(roomID domain.RoomID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.routers, roomID)
}

func (w *Worker) router(roomID domain.RoomID) (*Router, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.routers[roomID]
	return r, ok
}

func (w *Worker) routerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.routers)
}

// goroutinePressureCap bounds how much runtime.NumGoroutine() can weight
// the base load estimate — a multiplicative nudge, not an independent
// signal, so an idle worker with zero transports still reports zero load.
const goroutinePressureCap = 0.05

// cpuFraction estimates this worker's load in [0,1]: the larger of its
// live transport count and its routers' aggregate GetStats() byte
// throughput, each normalized against its own capacity ceiling, weighted
// up slightly by runtime.NumGoroutine() pressure across the process.
func (w *Worker) cpuFraction() float64 {
	w.mu.RLock()
	routers := make([]*Router, 0, len(w.routers))
	for _, r := range w.routers {
		routers = append(routers, r)
	}
	w.mu.RUnlock()

	var transports int
	var bytes uint64
	for _, r := range routers {
		tc, _, _ := r.counts()
		transports += tc
		bytes += r.byteTotal()
	}

	base := float64(transports) / float64(capacityPerWorker)
	if byteLoad := float64(bytes) / float64(bytesPerWorkerCapacity); byteLoad > base {
		base = byteLoad
	}

	goroutineWeight := float64(runtime.NumGoroutine()) / float64(capacityPerWorker*4)
	if goroutineWeight > goroutinePressureCap {
		goroutineWeight = goroutinePressureCap
	}

	f := base * (1 + goroutineWeight)
	if f > 1 {
		f = 1
	}
	return f
}

// close tears down every router this worker owns, e.g. on worker death
// or pool scale-down.
func (w *Worker) close() {
	w.mu.Lock()
	routers := make([]*Router, 0, len(w.routers))
	for _, r := range w.routers {
		routers = append(routers, r)
	}
	w.routers = make(map[domain.RoomID]*Router)
	w.mu.Unlock()

	for _, r := range routers {
		r.closeAll()
	}
}
