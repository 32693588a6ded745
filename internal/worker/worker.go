// Package worker holds the background jobs of the worker binary: the
// periodic expired-hold sweep and the notification consumer.
package worker

import (
	"context"
	"time"

	"github.com/Domenick1991/seatreserve/internal/kafka"
	"github.com/Domenick1991/seatreserve/internal/logger"
	kafkago "github.com/segmentio/kafka-go"
)

// HoldPurger deletes holds that expired before now.
type HoldPurger interface {
	PurgeExpiredHolds(ctx context.Context, now time.Time) (int64, error)
}

type HoldSweeper struct {
	store    HoldPurger
	interval time.Duration
	now      func() time.Time
	log      *logger.Logger
}

func NewHoldSweeper(store HoldPurger, interval time.Duration, log *logger.Logger) *HoldSweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &HoldSweeper{store: store, interval: interval, now: time.Now, log: log}
}

// Sweep runs one pass. Readers ignore expired holds anyway; the sweep only
// keeps the table small.
func (s *HoldSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.store.PurgeExpiredHolds(ctx, s.now())
	if err != nil {
		s.log.Error("hold sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		s.log.Info("expired holds removed", "count", n)
	}
	return n, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *HoldSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}

// Notifier delivers one booking event to the passenger.
type Notifier interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

// NotificationHandler decodes booking events for the Kafka consumer.
// Undecodable messages are logged and skipped so one bad message cannot
// stall the partition.
func NotificationHandler(n Notifier, log *logger.Logger) func(context.Context, kafkago.Message) error {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, msg kafkago.Message) error {
		event, err := kafka.DecodeBookingEvent(msg.Value)
		if err != nil {
			log.Warn("skipping booking event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			return nil
		}
		if err := n.Send(ctx, event); err != nil {
			log.Warn("notification not sent", "booking_reference", event.BookingReference, "type", event.Type, "error", err)
		}
		return nil
	}
}
