// Package queue decouples audit logging from request handling. Entries are
// sharded by user so one user's entries stay ordered, and dropped rather
// than blocking a request when the buffers are full.
package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

const (
	defaultShards     = 4
	defaultBufferSize = 256
	writeTimeout      = 5 * time.Second
)

// Dispatcher fans audit entries out to per-shard workers that persist them
// through an ActivityRepository. It satisfies ports.ActivityRecorder.
type Dispatcher struct {
	repo   ports.ActivityRepository
	shards []chan domain.ActivityEntry
	log    zerolog.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

func NewDispatcher(repo ports.ActivityRepository, shards, bufferSize int, log zerolog.Logger) *Dispatcher {
	if shards <= 0 {
		shards = defaultShards
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	chans := make([]chan domain.ActivityEntry, shards)
	for i := range chans {
		chans[i] = make(chan domain.ActivityEntry, bufferSize)
	}
	return &Dispatcher{repo: repo, shards: chans, log: log}
}

// Start launches one worker per shard. Workers drain their channels until
// Stop closes them.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	for i, ch := range d.shards {
		d.wg.Add(1)
		go d.worker(i, ch)
	}
}

// Record enqueues an entry without blocking. Entries for a full shard are
// dropped and counted in the log; audit entries are advisory.
func (d *Dispatcher) Record(entry domain.ActivityEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	shard := d.shardFor(entry.UserID)
	select {
	case d.shards[shard] <- entry:
	default:
		d.log.Warn().
			Str("user_id", entry.UserID).
			Str("action", entry.Action).
			Msg("activity buffer full, entry dropped")
	}
}

// Stop closes the shard channels and waits for the workers to drain them.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed || !d.started {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	for _, ch := range d.shards {
		close(ch)
	}
	d.wg.Wait()
}

func (d *Dispatcher) worker(id int, ch <-chan domain.ActivityEntry) {
	defer d.wg.Done()
	for entry := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.repo.Insert(ctx, &entry); err != nil {
			d.log.Error().Err(err).Int("shard", id).Str("action", entry.Action).Msg("activity write failed")
		}
		cancel()
	}
}

func (d *Dispatcher) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.shards)))
}
