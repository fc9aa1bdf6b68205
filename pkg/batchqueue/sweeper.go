package batchqueue

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Processor executes one popped Job and returns its price.
type Processor func(ctx context.Context, job Job) (float64, error)

// Sweeper drains Queue on a cron schedule, grounded on the periodic-task
// scheduler in wynnforthework-QCAT's orchestrator package: a
// github.com/robfig/cron/v3.Cron ticking a registered handler, here
// fixed to one handler (draining the pricing queue) instead of a
// pluggable task-type registry.
type Sweeper struct {
	cron      *cron.Cron
	queue     *Queue
	processor Processor
	batchSize int
}

// NewSweeper returns a Sweeper that pops up to batchSize jobs per tick
// and runs processor on each.
func NewSweeper(queue *Queue, processor Processor, batchSize int) *Sweeper {
	return &Sweeper{
		cron:      cron.New(cron.WithSeconds()),
		queue:     queue,
		processor: processor,
		batchSize: batchSize,
	}
}

// Start schedules the drain loop at the given cron spec (e.g. "*/5 * * * * *"
// for every five seconds) and begins running it in the background.
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.drain)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron scheduler, waiting for any in-flight tick to
// finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := 0; i < s.batchSize; i++ {
		job, ok, err := s.queue.PopNext(ctx)
		if err != nil || !ok {
			return
		}
		price, procErr := s.processor(ctx, job)
		s.queue.Complete(ctx, job.ID, price, procErr)
	}
}
