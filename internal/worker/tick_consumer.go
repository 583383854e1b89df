package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/course-platform/internal/course"
	"github.com/example/course-platform/internal/store"
)

// TickEvent is the payload published by the HTTP layer for progress ticks.
type TickEvent struct {
	EventID     string  `json:"event_id"`
	VideoID     string  `json:"video_id"`
	CourseID    string  `json:"course_id"`
	CurrentTime float64 `json:"current_time"`
	Duration    int     `json:"duration"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
}

const (
	streamName  = "PROGRESS"
	tickSubject = "progress.tick"
	durableName = "progress_tick"
)

// TickConsumer drains progress.tick and applies the upserts through the
// store. Events are full replacements, so redelivery is harmless and no
// idempotency bookkeeping is needed.
type TickConsumer struct {
	Log   *zap.Logger
	JS    nats.JetStreamContext
	Store store.Store

	BatchSize int
	MaxWait   time.Duration
}

func NewTickConsumer(log *zap.Logger, nc *nats.Conn, st store.Store) (*TickConsumer, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &TickConsumer{
		Log:       log,
		JS:        js,
		Store:     st,
		BatchSize: 100,
		MaxWait:   2 * time.Second,
	}, nil
}

// EnsureStream creates the PROGRESS stream when it does not exist yet.
func (c *TickConsumer) EnsureStream() error {
	if _, err := c.JS.StreamInfo(streamName); err == nil {
		return nil
	} else if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err := c.JS.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{"progress.>"},
		Storage:  nats.FileStorage,
		MaxAge:   24 * time.Hour,
	})
	return err
}

// Run blocks until ctx is cancelled, fetching and applying tick batches.
func (c *TickConsumer) Run(ctx context.Context) error {
	if err := c.EnsureStream(); err != nil {
		return err
	}
	sub, err := c.JS.PullSubscribe(tickSubject, durableName)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := sub.Fetch(c.BatchSize, nats.MaxWait(c.MaxWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			c.Log.Warn("tick fetch failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, m := range msgs {
			c.apply(ctx, m)
		}
	}
}

func (c *TickConsumer) apply(ctx context.Context, m *nats.Msg) {
	var ev TickEvent
	if err := json.Unmarshal(m.Data, &ev); err != nil {
		// Malformed events never become valid; drop them.
		c.Log.Warn("invalid tick payload", zap.Error(err))
		_ = m.Ack()
		return
	}

	_, err := c.Store.SaveProgress(ctx, course.Progress{
		VideoID:     ev.VideoID,
		CourseID:    ev.CourseID,
		CurrentTime: ev.CurrentTime,
		Duration:    ev.Duration,
		Completed:   ev.Completed,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Course deleted while ticks were in flight.
			c.Log.Info("tick for deleted course dropped",
				zap.String("course_id", ev.CourseID), zap.String("event_id", ev.EventID))
			_ = m.Ack()
			return
		}
		c.Log.Warn("tick apply failed", zap.String("event_id", ev.EventID), zap.Error(err))
		_ = m.Nak()
		return
	}
	_ = m.Ack()
}
