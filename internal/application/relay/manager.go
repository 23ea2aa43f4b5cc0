package relay

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aescanero/transrelay/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// publishTimeout bounds event publication, which outlives the client request
const publishTimeout = 2 * time.Second

// Manager relays translate requests to the upstream translator
type Manager struct {
	translator ports.Translator
	eventBus   ports.EventBus
	metrics    ports.MetricsCollector
	validator  *Validator
	logger     *zap.Logger
}

// NewManager creates a new relay manager. eventBus and metrics may be nil.
func NewManager(
	translator ports.Translator,
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	validator *Validator,
	logger *zap.Logger,
) *Manager {
	if validator == nil {
		validator = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		translator: translator,
		eventBus:   eventBus,
		metrics:    metrics,
		validator:  validator,
		logger:     logger,
	}
}

// Translate validates req, calls the upstream once and maps the outcome.
//
// Errors:
//   - ErrTextRequired: empty text, the upstream is not called
//   - ErrTranslationFailed: the upstream answered without a translation
//   - any other error: transport or decoding failure
func (m *Manager) Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error) {
	upstreamReq, err := m.validator.Validate(req)
	if err != nil {
		m.recordTranslation(ports.OutcomeInvalidInput, req)
		return nil, err
	}

	requestID := RequestIDFrom(ctx)
	provider := m.translator.Name()

	start := time.Now()
	translated, err := m.translator.Translate(ctx, upstreamReq)
	latency := time.Since(start)

	if m.metrics != nil {
		m.metrics.ObserveUpstreamLatency(provider, latency)
	}

	event := ports.Event{
		ID:         uuid.New().String(),
		RequestID:  requestID,
		Provider:   provider,
		SourceLang: upstreamReq.SourceLang,
		DestLang:   upstreamReq.TargetLang,
		TextLength: utf8.RuneCountInString(upstreamReq.Text),
		LatencyMs:  latency.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}

	if err != nil {
		event.Type = ports.EventTypeTranslationFailed
		event.Error = err.Error()

		var outcome string
		if errors.Is(err, ports.ErrNoTranslation) {
			outcome = ports.OutcomeUpstreamFailed
			err = fmt.Errorf("%w: %w", ErrTranslationFailed, err)
			m.logger.Warn("upstream returned no translation",
				zap.String("request_id", requestID),
				zap.String("provider", provider),
				zap.String("langpair", upstreamReq.SourceLang+"|"+upstreamReq.TargetLang),
				zap.Error(err))
		} else {
			outcome = ports.OutcomeError
			err = fmt.Errorf("upstream %s: %w", provider, err)
			m.logger.Error("translation request failed",
				zap.String("request_id", requestID),
				zap.String("provider", provider),
				zap.String("langpair", upstreamReq.SourceLang+"|"+upstreamReq.TargetLang),
				zap.Duration("latency", latency),
				zap.Error(err))
		}

		m.recordTranslation(outcome, req)
		m.publish(ctx, event)
		return nil, err
	}

	event.Type = ports.EventTypeTranslationCompleted
	event.Success = true
	m.recordTranslation(ports.OutcomeSuccess, req)
	m.publish(ctx, event)

	return &TranslationResult{
		Success:        true,
		OriginalText:   upstreamReq.Text,
		TranslatedText: translated,
		SrcLanguage:    upstreamReq.SourceLang,
		DestLanguage:   upstreamReq.TargetLang,
	}, nil
}

func (m *Manager) recordTranslation(outcome string, req TranslationRequest) {
	if m.metrics == nil {
		return
	}
	src, dest := DefaultSourceLang, DefaultTargetLang
	if req.Src != nil {
		src = *req.Src
	}
	if req.Dest != nil {
		dest = *req.Dest
	}
	m.metrics.RecordTranslation(outcome, src, dest)
}

// publish never fails the request; errors are logged and counted
func (m *Manager) publish(ctx context.Context, event ports.Event) {
	if m.eventBus == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := m.eventBus.Publish(pubCtx, ports.TopicTranslations, event); err != nil {
		m.logger.Warn("failed to publish translation event",
			zap.String("event_id", event.ID),
			zap.String("request_id", event.RequestID),
			zap.Error(err))
		if m.metrics != nil {
			m.metrics.RecordEventPublishFailure(ports.TopicTranslations)
		}
	}
}
