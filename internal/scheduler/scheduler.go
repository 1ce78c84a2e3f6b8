package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	whatsappclient "github.com/mamadbah2/foodcost/pkg/clients/whatsapp"
)

// DigestBuilder produces the periodic purchase digest.
type DigestBuilder interface {
	WeeklyDigest(ctx context.Context, now time.Time) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reporting DigestBuilder
	client    whatsappclient.Client
	recipient string
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler running in loc. client may be nil, in
// which case digests are only logged.
func NewScheduler(schedule string, loc *time.Location, reporting DigestBuilder, client whatsappclient.Client, recipient string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  schedule,
		reporting: reporting,
		client:    client,
		recipient: recipient,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDigest); err != nil {
		return fmt.Errorf("schedule weekly digest %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.SendDigest(ctx); err != nil {
		s.logger.Error("weekly digest failed", zap.Error(err))
	}
}

// SendDigest builds the digest and delivers it.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	s.logger.Info("generating weekly digest")

	digest, err := s.reporting.WeeklyDigest(ctx, s.now())
	if err != nil {
		return fmt.Errorf("generate digest: %w", err)
	}

	if s.client == nil || s.recipient == "" {
		s.logger.Info("weekly digest", zap.String("digest", digest))
		return nil
	}

	if err := whatsappclient.SendLongText(ctx, s.client, s.recipient, digest); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	s.logger.Info("weekly digest sent", zap.String("to", s.recipient))
	return nil
}
