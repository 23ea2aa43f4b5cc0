package relay

import (
	"context"
	"errors"
)

var (
	// ErrTextRequired is returned when the text is empty after trimming
	ErrTextRequired = errors.New("text is required")

	// ErrTranslationFailed is returned when the upstream was reached but
	// reported no translation
	ErrTranslationFailed = errors.New("translation failed")
)

// TranslationRequest is the client request body. Src and Dest are pointers so
// an absent field can be told apart from an empty one.
type TranslationRequest struct {
	Text string  `json:"text"`
	Src  *string `json:"src"`
	Dest *string `json:"dest"`
}

// TranslationResult is the normalized success response
type TranslationResult struct {
	Success        bool   `json:"success"`
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SrcLanguage    string `json:"src_language"`
	DestLanguage   string `json:"dest_language"`
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the request ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored in ctx, or ""
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
