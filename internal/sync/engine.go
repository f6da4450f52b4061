package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsudoi/convosync/internal/conversations"
	"github.com/tsudoi/convosync/internal/observability/metrics"
	"github.com/tsudoi/convosync/pkg/logging"
)

// Mode governs how an existing remote record is reconciled with a freshly
// parsed conversation.
type Mode string

const (
	ModeUpdate     Mode = "update"
	ModeCreateOnly Mode = "create_only"
	ModeOverwrite  Mode = "overwrite"
)

// ParseMode validates a merge mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeUpdate:
		return ModeUpdate, nil
	case ModeCreateOnly:
		return ModeCreateOnly, nil
	case ModeOverwrite:
		return ModeOverwrite, nil
	default:
		return "", fmt.Errorf("sync: unknown merge mode %q", s)
	}
}

// Outcome of processing one conversation.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "errors"
)

// Tally aggregates outcomes across conversations and batches.
type Tally struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

func (t *Tally) record(o Outcome) {
	switch o {
	case OutcomeCreated:
		t.Created++
	case OutcomeUpdated:
		t.Updated++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomeError:
		t.Errors++
	}
}

func (t *Tally) add(other Tally) {
	t.Total += other.Total
	t.Created += other.Created
	t.Updated += other.Updated
	t.Skipped += other.Skipped
	t.Errors += other.Errors
}

// Engine reconciles parsed conversations against a remote record store.
// Processing is strictly sequential; throttling is time-based via the pacer.
// A single conversation failing never aborts the batch or the run.
type Engine struct {
	store         RecordStore
	mode          Mode
	batchSize     int
	dryRun        bool
	sourceURLBase string
	pacer         Pacer
	logger        *logging.Logger
	metrics       *metrics.ImportMetrics
}

// NewEngine builds an engine with the default merge mode (update) and batch
// size (10), throttling disabled until a pacer is set.
func NewEngine(store RecordStore, logger *logging.Logger) *Engine {
	if store == nil {
		panic("sync: record store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		store:     store,
		mode:      ModeUpdate,
		batchSize: 10,
		pacer:     NopPacer{},
		logger:    logger,
	}
}

func (e *Engine) WithMode(mode Mode) *Engine {
	if mode != "" {
		e.mode = mode
	}
	return e
}

func (e *Engine) WithBatchSize(n int) *Engine {
	if n > 0 {
		e.batchSize = n
	}
	return e
}

func (e *Engine) WithDryRun(dryRun bool) *Engine {
	e.dryRun = dryRun
	return e
}

func (e *Engine) WithSourceURLBase(base string) *Engine {
	e.sourceURLBase = base
	return e
}

func (e *Engine) WithPacer(pacer Pacer) *Engine {
	if pacer != nil {
		e.pacer = pacer
	}
	return e
}

func (e *Engine) WithMetrics(m *metrics.ImportMetrics) *Engine {
	e.metrics = m
	return e
}

// Run processes conversations in fixed-size batches, accumulating per-batch
// tallies into a running total. A longer throttling slot separates batches;
// none follows the last.
func (e *Engine) Run(ctx context.Context, convs []*conversations.Conversation) Tally {
	var total Tally

	for start := 0; start < len(convs); start += e.batchSize {
		end := start + e.batchSize
		if end > len(convs) {
			end = len(convs)
		}
		batch := convs[start:end]

		e.logger.Info("processing batch",
			"batch", start/e.batchSize+1,
			"size", len(batch),
		)

		batchTally := e.importBatch(ctx, batch)
		total.add(batchTally)

		e.logger.Info("batch complete",
			"created", batchTally.Created,
			"updated", batchTally.Updated,
			"skipped", batchTally.Skipped,
			"errors", batchTally.Errors,
		)

		if end < len(convs) {
			e.pacer.BatchSlot(ctx)
		}
	}

	return total
}

// importBatch reconciles one batch. In dry-run mode every conversation is
// reported as created and no remote call or throttling slot happens.
func (e *Engine) importBatch(ctx context.Context, convs []*conversations.Conversation) Tally {
	tally := Tally{Total: len(convs)}

	for _, conv := range convs {
		if e.dryRun {
			e.logger.Info("dry run: would process conversation", "conversation_id", conv.ID)
			tally.record(OutcomeCreated)
			continue
		}

		outcome := e.syncOne(ctx, conv)
		tally.record(outcome)
		e.metrics.ObserveOutcome(string(e.mode), string(outcome))

		e.pacer.RecordSlot(ctx)
	}

	return tally
}

// syncOne runs the per-conversation state machine: lookup by identifier,
// then create, update, skip, or archive-and-recreate per the merge mode.
func (e *Engine) syncOne(ctx context.Context, conv *conversations.Conversation) Outcome {
	ref, err := e.store.Find(ctx, conv.ID)
	if err != nil {
		// A failed existence check is treated as "not found"; the record
		// will be created. Matches the source system's behavior.
		e.logger.Warn("existence check failed, assuming new record",
			"conversation_id", conv.ID,
			"error", err.Error(),
		)
		ref = ""
	}

	props := BuildProperties(conv, e.sourceURLBase)

	if ref == "" {
		if _, err := e.store.Create(ctx, props, BuildContent(conv)); err != nil {
			e.logger.Error("create failed", "conversation_id", conv.ID, "error", err.Error())
			return OutcomeError
		}
		return OutcomeCreated
	}

	switch e.mode {
	case ModeUpdate:
		if err := e.store.Update(ctx, ref, props); err != nil {
			e.logger.Error("update failed", "conversation_id", conv.ID, "error", err.Error())
			return OutcomeError
		}
		if err := e.store.ReplaceContent(ctx, ref, BuildContent(conv)); err != nil {
			e.logger.Error("content replace failed", "conversation_id", conv.ID, "error", err.Error())
			return OutcomeError
		}
		return OutcomeUpdated

	case ModeCreateOnly:
		return OutcomeSkipped

	case ModeOverwrite:
		// Archive-then-create runs as two calls with no transaction. If the
		// create fails the old record stays archived; the failure is only
		// counted. Known correctness gap, kept deliberately.
		if err := e.store.Archive(ctx, ref); err != nil {
			e.logger.Error("archive failed", "conversation_id", conv.ID, "error", err.Error())
			return OutcomeError
		}
		if _, err := e.store.Create(ctx, props, BuildContent(conv)); err != nil {
			e.logger.Error("recreate after archive failed", "conversation_id", conv.ID, "error", err.Error())
			return OutcomeError
		}
		return OutcomeCreated

	default:
		e.logger.Error("unknown merge mode", "mode", string(e.mode))
		return OutcomeError
	}
}
