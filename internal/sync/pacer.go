package sync

import (
	"context"
	"time"
)

// Pacer spaces out remote calls. RecordSlot runs after each processed
// conversation, BatchSlot between batches. Throttling is purely time-based;
// there is no coordination between concurrent runs.
type Pacer interface {
	RecordSlot(ctx context.Context)
	BatchSlot(ctx context.Context)
}

// SleepPacer waits for fixed durations, bailing early on context cancel.
type SleepPacer struct {
	record time.Duration
	batch  time.Duration
}

func NewSleepPacer(record, batch time.Duration) *SleepPacer {
	return &SleepPacer{record: record, batch: batch}
}

func (p *SleepPacer) RecordSlot(ctx context.Context) { wait(ctx, p.record) }
func (p *SleepPacer) BatchSlot(ctx context.Context)  { wait(ctx, p.batch) }

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// NopPacer disables throttling; used by tests and dry runs.
type NopPacer struct{}

func (NopPacer) RecordSlot(context.Context) {}
func (NopPacer) BatchSlot(context.Context)  {}
