package mailer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrQueueFull is recorded for jobs dropped because the dispatch queue
// had no room.
var ErrQueueFull = errors.New("notification queue full")

// Job is one queued notification tied to a service order.
type Job struct {
	OrderID uint
	Message Message
}

// Outcome is reported to the dispatcher's recorder after each job.
type Outcome struct {
	Job      Job
	Sent     bool
	Attempts int
	Err      error
}

// Dispatcher runs email side effects off the request path. Enqueue
// never blocks the caller; the worker sends in the background and
// reports every outcome to the recorder, which persists the
// notification log. A failed job is not retried beyond the sender's
// own retry policy, it is only recorded.
type Dispatcher struct {
	sender   Sender
	logger   *zap.Logger
	recorder func(Outcome)

	jobs chan Job
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(sender Sender, logger *zap.Logger, recorder func(Outcome)) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		logger:   logger,
		recorder: recorder,
		jobs:     make(chan Job, 64),
		stop:     make(chan struct{}),
	}
}

// Start launches the background worker.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case job := <-d.jobs:
				d.process(ctx, job)
			case <-d.stop:
				// drain what was already queued
				for {
					select {
					case job := <-d.jobs:
						d.process(ctx, job)
					default:
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop waits for queued jobs to finish.
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.stop) })
	d.wg.Wait()
}

// Enqueue hands a job to the worker without blocking. When the queue is
// full the job is dropped and recorded as failed; order creation must
// never wait on the mail path.
func (d *Dispatcher) Enqueue(job Job) {
	select {
	case d.jobs <- job:
	default:
		d.logger.Error("notification queue full, dropping job",
			zap.Uint("order_id", job.OrderID),
			zap.String("to", job.Message.To),
		)
		if d.recorder != nil {
			d.recorder(Outcome{Job: job, Sent: false, Attempts: 0, Err: ErrQueueFull})
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job Job) {
	err := d.sender.Send(ctx, job.Message)
	out := Outcome{Job: job, Sent: err == nil, Attempts: 1, Err: err}
	if err != nil {
		d.logger.Error("order notification failed",
			zap.Uint("order_id", job.OrderID),
			zap.String("to", job.Message.To),
			zap.Error(err),
		)
	} else {
		d.logger.Info("order notification sent",
			zap.Uint("order_id", job.OrderID),
			zap.String("to", job.Message.To),
		)
	}
	if d.recorder != nil {
		d.recorder(out)
	}
}
