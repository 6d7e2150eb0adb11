package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type worker struct {
	id         int
	workerPool chan chan Message
	jobChannel chan Message
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan Message, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Message),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, process func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.workerPool <- w.jobChannel:
			case <-ctx.Done():
				return
			}

			select {
			case msg := <-w.jobChannel:
				w.logger.Debug("worker delivering notification", "worker_id", w.id, "message_id", msg.ID)
				process(msg)
			case <-ctx.Done():
				w.logger.Debug("worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type Config struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher fans queued messages out to every provider on a fixed pool of
// workers. Enqueue never blocks.
type Dispatcher struct {
	providers   []Provider
	sendTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once

	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup
}

func NewDispatcher(cfg Config, logger *slog.Logger, providers ...Provider) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.Workers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		providers:   providers,
		sendTimeout: sendTimeout,
		logger:      logger,
		jobQueue:    make(chan Message, queueSize),
		workerPool:  make(chan chan Message, maxWorkers),
		maxWorkers:  maxWorkers,
		ctx:         ctx,
		cancel:      cancel,
	}
	d.start()
	return d
}

func (d *Dispatcher) start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			newWorker(i, d.workerPool, d.logger).start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue),
			"providers", d.providerNames())
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case msg := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- msg:
				case <-d.ctx.Done():
					d.logger.Info("notification dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("notification dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

// Enqueue reports false when the message was dropped because the queue is
// full or the dispatcher is shutting down.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("notification dropped after shutdown", "message_id", msg.ID, "event_type", msg.EventType)
		return false
	}

	d.pending.Add(1)
	select {
	case d.jobQueue <- msg:
		d.logger.Debug("notification queued",
			"message_id", msg.ID,
			"recipient_id", msg.RecipientID,
			"queue_length", len(d.jobQueue))
		return true
	default:
		d.pending.Done()
		d.logger.Warn("notification queue full, dropping message",
			"message_id", msg.ID,
			"event_type", msg.EventType,
			"recipient_id", msg.RecipientID,
			"queue_capacity", cap(d.jobQueue))
		return false
	}
}

func (d *Dispatcher) deliver(msg Message) {
	defer d.pending.Done()

	for _, p := range d.providers {
		ctx, cancel := context.WithTimeout(d.ctx, d.sendTimeout)
		err := p.Send(ctx, msg)
		cancel()
		if err != nil {
			d.logger.Error("notification delivery failed",
				"provider", p.Name(),
				"message_id", msg.ID,
				"event_type", msg.EventType,
				"recipient_id", msg.RecipientID,
				"error", err)
			continue
		}
	}
}

// Shutdown stops accepting messages, waits for queued ones until ctx is done
// and then stops the workers.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.logger.Info("shutting down notification dispatcher")

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		d.logger.Warn("notification dispatcher stopped with undelivered messages", "queued", len(d.jobQueue))
	}

	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

func (d *Dispatcher) providerNames() []string {
	names := make([]string, 0, len(d.providers))
	for _, p := range d.providers {
		names = append(names, p.Name())
	}
	return names
}
