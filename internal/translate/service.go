package translate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tsudoi/convosync/internal/conversations"
	"github.com/tsudoi/convosync/internal/observability/metrics"
	"github.com/tsudoi/convosync/pkg/logging"
)

// ErrNoProviders is returned when the service is constructed without any
// configured provider.
var ErrNoProviders = errors.New("translate: at least one provider is required")

// Result is the outcome of translating one title. An unsuccessful result
// always carries Translated == Original so callers can use it directly.
type Result struct {
	Original   string
	Translated string
	Success    bool
	Provider   string
	Reason     string
}

// Service translates conversation titles to Japanese, trying providers in a
// configured preference order with per-provider retry and backoff. Failures
// never escalate: exhaustion degrades to the original title.
type Service struct {
	primary         Provider
	secondary       Provider
	preferSecondary bool
	maxRetries      int
	batchDelay      time.Duration
	sleep           func(time.Duration)
	logger          *logging.Logger
	metrics         *metrics.ImportMetrics
}

// NewService builds a translation service. At least one provider must be
// configured; a nil provider is simply unavailable. By default the
// secondary provider is preferred, three attempts are made per provider,
// and batch calls are spaced 100ms apart.
func NewService(primary, secondary Provider, logger *logging.Logger) (*Service, error) {
	if primary == nil && secondary == nil {
		return nil, ErrNoProviders
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		primary:         primary,
		secondary:       secondary,
		preferSecondary: true,
		maxRetries:      3,
		batchDelay:      100 * time.Millisecond,
		sleep:           time.Sleep,
		logger:          logger,
	}, nil
}

func (s *Service) WithMaxRetries(n int) *Service {
	if n > 0 {
		s.maxRetries = n
	}
	return s
}

func (s *Service) WithPreferSecondary(prefer bool) *Service {
	s.preferSecondary = prefer
	return s
}

func (s *Service) WithBatchDelay(d time.Duration) *Service {
	if d >= 0 {
		s.batchDelay = d
	}
	return s
}

func (s *Service) WithMetrics(m *metrics.ImportMetrics) *Service {
	s.metrics = m
	return s
}

// WithSleep swaps the backoff/delay sleeper. Tests use this to avoid
// real waits.
func (s *Service) WithSleep(fn func(time.Duration)) *Service {
	if fn != nil {
		s.sleep = fn
	}
	return s
}

// Translate translates a single title. Titles that are empty or already in
// the target script never reach a provider.
func (s *Service) Translate(ctx context.Context, title string) Result {
	if strings.TrimSpace(title) == "" {
		return Result{Original: title, Translated: title, Provider: "none", Reason: "empty title"}
	}

	if containsJapanese(title) {
		return Result{Original: title, Translated: title, Success: true, Provider: "none"}
	}

	if s.preferSecondary && s.secondary != nil {
		if res := s.tryProvider(ctx, s.secondary, title); res.Success {
			return res
		}
	}
	if s.primary != nil {
		if res := s.tryProvider(ctx, s.primary, title); res.Success {
			return res
		}
	}
	if !s.preferSecondary && s.secondary != nil {
		if res := s.tryProvider(ctx, s.secondary, title); res.Success {
			return res
		}
	}

	return Result{Original: title, Translated: title, Provider: "none", Reason: "all translation attempts failed"}
}

// tryProvider runs one provider with retries and exponential backoff
// (2^attempt seconds between attempts).
func (s *Service) tryProvider(ctx context.Context, p Provider, title string) Result {
	prompt := translationPrompt(title)

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		text, err := p.Complete(ctx, prompt)
		if err == nil {
			translated := strings.TrimSpace(text)
			if translated != "" {
				s.metrics.ObserveTranslation(p.Name(), true)
				return Result{Original: title, Translated: translated, Success: true, Provider: p.Name()}
			}
		} else {
			s.logger.Error("translation attempt failed",
				"provider", p.Name(),
				"attempt", attempt+1,
				"error", err.Error(),
			)
		}
		if attempt < s.maxRetries-1 {
			s.sleep(time.Duration(1<<attempt) * time.Second)
		}
	}

	s.metrics.ObserveTranslation(p.Name(), false)
	return Result{Original: title, Translated: title, Provider: p.Name(), Reason: p.Name() + " translation failed"}
}

// TranslateBatch translates titles in order, spacing successive calls with
// the batch delay (retries within one call are paced separately).
func (s *Service) TranslateBatch(ctx context.Context, titles []string) []Result {
	results := make([]Result, 0, len(titles))
	for i, title := range titles {
		results = append(results, s.Translate(ctx, title))
		if i < len(titles)-1 {
			s.sleep(s.batchDelay)
		}
	}
	return results
}

// EnrichTitles fills each conversation's TranslatedTitle from the batch
// variant. Unsuccessful translations leave the original title in place,
// so the field is always usable afterwards.
func (s *Service) EnrichTitles(ctx context.Context, convs []*conversations.Conversation) {
	titles := make([]string, len(convs))
	for i, conv := range convs {
		titles[i] = conv.Title
	}

	results := s.TranslateBatch(ctx, titles)
	for i, res := range results {
		convs[i].TranslatedTitle = res.Translated
		if !res.Success {
			s.logger.Warn("title left untranslated",
				"conversation_id", convs[i].ID,
				"reason", res.Reason,
			)
		}
	}
}
