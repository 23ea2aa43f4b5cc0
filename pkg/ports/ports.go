// Package ports defines the interfaces between the relay application layer
// and its adapters.
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNoTranslation is returned by a Translator when the upstream was reached
// but did not report a usable translation.
var ErrNoTranslation = errors.New("upstream returned no translation")

// TranslateRequest is a single upstream translation call
type TranslateRequest struct {
	Text       string
	SourceLang string
	TargetLang string
}

// Translator is an upstream translation provider
type Translator interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// EventType identifies a translation event
type EventType string

const (
	EventTypeTranslationCompleted EventType = "translation.completed"
	EventTypeTranslationFailed    EventType = "translation.failed"
)

// TopicTranslations carries one event per translation that reached the upstream
const TopicTranslations = "translations"

// Event describes the outcome of one relayed translation. Texts are never
// included.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	RequestID  string    `json:"request_id,omitempty"`
	Provider   string    `json:"provider"`
	SourceLang string    `json:"src_language"`
	DestLang   string    `json:"dest_language"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	TextLength int       `json:"text_length"`
	LatencyMs  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventHandler consumes events. Handlers must not block.
type EventHandler func(ctx context.Context, event Event) error

// EventBus publishes and fans out translation events
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	// Subscribe delivers events published after the call until ctx is done.
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Close() error
}

// Translation outcomes reported to the MetricsCollector
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeUpstreamFailed = "upstream_failed"
	OutcomeError          = "error"
)

// MetricsCollector records relay metrics
type MetricsCollector interface {
	RecordTranslation(outcome, sourceLang, destLang string)
	ObserveUpstreamLatency(provider string, duration time.Duration)
	RecordEventPublishFailure(topic string)
}
