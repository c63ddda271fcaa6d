package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/pkg/metrics"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Job is one rendered notification awaiting a single delivery attempt.
type Job struct {
	Template string
	Mail     ports.Mail
}

// Dispatcher routes notification jobs to a fixed set of workers using
// consistent hashing on the destination address, so mail to one recipient
// is attempted in submission order. Each job gets exactly one attempt.
type Dispatcher struct {
	workers []chan Job
	sender  ports.MailSender
	log     zerolog.Logger
	pending sync.WaitGroup

	// mu orders Enqueue against shutdown. Enqueue checks and sends under the
	// read lock; closed is set under the write lock before quit releases the
	// workers to drain, so no job can land in a channel after its drain.
	mu      sync.RWMutex
	stopped <-chan struct{}
	closed  bool
	quit    chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// with a buffer of the given size. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, sender ports.MailSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		sender:  sender,
		log:     log,
		quit:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// jobs still queued at that point are dropped and logged.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.stopped = ctx.Done()
	d.mu.Unlock()

	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.quit)
	}()
}

// Enqueue hands a job to the worker responsible for its address. It never
// blocks: when that worker's buffer is full the job is dropped and logged.
func (d *Dispatcher) Enqueue(job Job) bool {
	idx := d.shardIndex(job.Mail.To)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stoppedLocked() {
		metrics.NotificationsTotal.WithLabelValues(job.Template, "dropped").Inc()
		d.log.Warn().Str("template", job.Template).Str("to", job.Mail.To).Msg("dispatcher stopped, dropping notification")
		return false
	}

	d.pending.Add(1)
	select {
	case d.workers[idx] <- job:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		d.pending.Done()
		metrics.NotificationsTotal.WithLabelValues(job.Template, "dropped").Inc()
		d.log.Warn().
			Str("template", job.Template).
			Str("to", job.Mail.To).
			Int("worker_id", idx).
			Msg("notification queue full, dropping")
		return false
	}
}

func (d *Dispatcher) stoppedLocked() bool {
	if d.closed {
		return true
	}
	select {
	case <-d.stopped:
		return true
	default:
		return false
	}
}

// Wait blocks until every job enqueued so far has been attempted or dropped.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// shardIndex maps an address deterministically to a worker index.
func (d *Dispatcher) shardIndex(address string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(address)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-d.quit:
			d.drop(id, ch)
			return
		case job := <-ch:
			depth.Dec()
			d.attempt(ctx, id, job)
		}
	}
}

// attempt makes the single delivery attempt for job. The transport's own
// timeout bounds it; failures are logged and counted, never retried.
func (d *Dispatcher) attempt(ctx context.Context, id int, job Job) {
	defer d.pending.Done()

	start := time.Now()
	err := d.sender.Send(ctx, job.Mail)
	metrics.NotificationSendDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(job.Template, "failed").Inc()
		d.log.Error().Err(err).
			Str("template", job.Template).
			Str("to", job.Mail.To).
			Int("worker_id", id).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(job.Template, "sent").Inc()
	d.log.Debug().
		Str("template", job.Template).
		Str("to", job.Mail.To).
		Int("worker_id", id).
		Msg("notification sent")
}

func (d *Dispatcher) drop(id int, ch <-chan Job) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case job := <-ch:
			depth.Dec()
			metrics.NotificationsTotal.WithLabelValues(job.Template, "dropped").Inc()
			d.log.Warn().Str("template", job.Template).Str("to", job.Mail.To).Msg("notification dropped on shutdown")
			d.pending.Done()
		default:
			return
		}
	}
}
