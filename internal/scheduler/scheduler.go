// Package scheduler runs periodic maintenance jobs for the reservation
// service.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type expiredRejecter interface {
	RejectExpired(ctx context.Context, today time.Time) (int, error)
}

// Scheduler periodically rejects pending reservations whose check-in
// date has already arrived.
type Scheduler struct {
	approvals expiredRejecter
	interval  time.Duration
	now       func() time.Time
	cron      gocron.Scheduler
}

func New(approvals expiredRejecter, interval time.Duration, now func() time.Time) (*Scheduler, error) {
	if now == nil {
		now = time.Now
	}
	cron, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return &Scheduler{approvals: approvals, interval: interval, now: now, cron: cron}, nil
}

// Start registers the expiry job and starts running it immediately and
// then every interval until Shutdown.  ctx bounds each run.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.tick(ctx) }),
		gocron.WithName("reject-expired-reservations"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("scheduler: register job: %w", err)
	}
	s.cron.Start()
	log.Printf("scheduler: started (interval=%s)", s.interval)
	return nil
}

// Shutdown stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := s.approvals.RejectExpired(ctx, s.now())
	if err != nil {
		log.Printf("scheduler: reject expired reservations: %v", err)
		return
	}
	if n > 0 {
		log.Printf("scheduler: rejected %d expired reservations", n)
	}
}
