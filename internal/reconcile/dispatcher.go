// Package reconcile runs the post-checkout ledger updates off the request
// path. A failed job is logged and dropped; the ledger tolerates a missed
// attachment and the next edit of the order repairs it.
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	customerdomain "github.com/smallbiznis/warung/internal/customer/domain"
)

const (
	queueSize  = 256
	jobTimeout = 10 * time.Second
)

// Job carries everything needed to upsert the customer and link the order.
type Job struct {
	OrderID snowflake.ID
	Phone   string
	Name    string
	Amount  decimal.Decimal
}

type Dispatcher struct {
	log       *zap.Logger
	customers customerdomain.Service

	jobs   chan Job
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

type Params struct {
	fx.In

	LC        fx.Lifecycle
	Log       *zap.Logger
	Customers customerdomain.Service
}

// New builds the dispatcher and ties the worker to the fx lifecycle. On stop
// the queue is closed and drained before shutdown proceeds.
func New(p Params) *Dispatcher {
	d := &Dispatcher{
		log:       p.Log.Named("reconcile.dispatcher"),
		customers: p.Customers,
		jobs:      make(chan Job, queueSize),
	}

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			d.wg.Add(1)
			go d.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.mu.Lock()
			if !d.closed {
				d.closed = true
				close(d.jobs)
			}
			d.mu.Unlock()
			done := make(chan struct{})
			go func() {
				d.wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return d
}

// Enqueue hands a job to the worker. It never blocks the caller; when the
// queue is full or already stopped the job is dropped with a warning.
func (d *Dispatcher) Enqueue(job Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("reconcile queue stopped, dropping job",
			zap.String("order_id", job.OrderID.String()),
			zap.String("phone", job.Phone),
		)
		return
	}
	select {
	case d.jobs <- job:
	default:
		d.log.Warn("reconcile queue full, dropping job",
			zap.String("order_id", job.OrderID.String()),
			zap.String("phone", job.Phone),
		)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.process(job)
	}
}

func (d *Dispatcher) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := d.customers.AttachOrder(ctx, job.OrderID, job.Phone, job.Name, job.Amount); err != nil {
		d.log.Error("ledger attachment failed",
			zap.String("order_id", job.OrderID.String()),
			zap.String("phone", job.Phone),
			zap.Error(err),
		)
		return
	}
	d.log.Debug("order attached to customer",
		zap.String("order_id", job.OrderID.String()),
		zap.String("phone", job.Phone),
	)
}

// Module wires the dispatcher.
var Module = fx.Module("reconcile",
	fx.Provide(New),
)
