package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
	"github.com/envios-ar/shipping-tracker/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

var (
	// ErrStopped is returned by Enqueue once the dispatcher has been stopped.
	ErrStopped = errors.New("dispatcher stopped")
	// ErrNotStarted is returned by Enqueue before Start.
	ErrNotStarted = errors.New("dispatcher not started")
)

// Dispatcher routes status commands to a fixed set of workers using consistent
// hashing on the tracking code, so commands for one shipment are applied in
// the order they were enqueued.
type Dispatcher struct {
	workers   []chan domain.StatusCommand
	processor ports.StatusCommandProcessor
	log       zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	done    <-chan struct{}
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.StatusCommandProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.StatusCommand, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StatusCommand, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and exit
// after Stop, or return immediately when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.done = ctx.Done()
	d.mu.Unlock()
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop refuses new commands, lets workers drain what is queued and waits for
// them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Enqueue sends a command to the worker responsible for its tracking code.
// It blocks once that worker's buffer is full, until the worker catches up or
// the context given to Start is cancelled.
func (d *Dispatcher) Enqueue(cmd domain.StatusCommand) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	if d.done == nil {
		return ErrNotStarted
	}
	idx := d.shardIndex(cmd.TrackingCode)
	select {
	case d.workers[idx] <- cmd:
	case <-d.done:
		return ErrStopped
	}
	metrics.CommandsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return nil
}

// EnqueueBatch enqueues commands in slice order, preserving per-shipment
// ordering.
func (d *Dispatcher) EnqueueBatch(cmds []domain.StatusCommand) error {
	for _, c := range cmds {
		if err := d.Enqueue(c); err != nil {
			return err
		}
	}
	return nil
}

// shardIndex maps a tracking code deterministically to a worker index. Codes
// are matched case-insensitively, so the hash is too.
func (d *Dispatcher) shardIndex(trackingCode string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToUpper(strings.TrimSpace(trackingCode))))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StatusCommand) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-ch:
			if !ok {
				return
			}
			metrics.CommandsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			err := d.processor.Process(ctx, cmd)
			metrics.CommandProcessingDuration.WithLabelValues(string(cmd.Action)).Observe(time.Since(start).Seconds())
			if err != nil {
				d.log.Error().Err(err).
					Str("tracking_code", cmd.TrackingCode).
					Str("action", string(cmd.Action)).
					Int("worker_id", id).
					Msg("command processing failed")
			}
		}
	}
}
