package mymemory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aescanero/transrelay/pkg/ports"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public MyMemory "get" endpoint
const DefaultBaseURL = "https://api.mymemory.translated.net/get"

// Client calls the MyMemory translation API
type Client struct {
	baseURL string
	email   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a MyMemory client. The timeout bounds every call.
func NewClient(baseURL, email string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		email:   email,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return "mymemory"
}

// response is the subset of the MyMemory payload the relay reads
type response struct {
	ResponseData    *responseData `json:"responseData"`
	ResponseStatus  status        `json:"responseStatus"`
	ResponseDetails string        `json:"responseDetails"`
}

// TranslatedText stays raw so an absent field can be told apart from null
type responseData struct {
	TranslatedText json.RawMessage `json:"translatedText"`
}

// status holds responseStatus, which MyMemory sends either as a number or,
// on some errors, as a string such as "403".
type status struct {
	code    float64
	numeric bool
	raw     string
}

func (s *status) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &s.raw)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// booleans, objects and arrays are kept verbatim and never succeed
		s.raw = string(b)
		return nil
	}
	s.raw = n.String()
	code, err := n.Float64()
	if err != nil {
		return nil
	}
	s.code = code
	s.numeric = true
	return nil
}

// ok reports a numeric 200 (200.0 included); the string "200" is not accepted.
func (s status) ok() bool {
	return s.numeric && s.code == http.StatusOK
}

// Translate sends one GET ?q=<text>&langpair=<src>|<dest> request. The HTTP
// status of the reply is not consulted, only the JSON payload.
func (c *Client) Translate(ctx context.Context, req ports.TranslateRequest) (string, error) {
	apiURL, err := c.buildURL(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// *url.Error carries the full request URL, which holds the caller's
		// text and the operator's email
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if !payload.ResponseStatus.ok() {
		c.logger.Debug("upstream rejected translation",
			zap.String("response_status", payload.ResponseStatus.raw),
			zap.String("details", payload.ResponseDetails))
		return "", fmt.Errorf("%w: status %s: %s", ports.ErrNoTranslation, payload.ResponseStatus.raw, payload.ResponseDetails)
	}
	if payload.ResponseData == nil || len(payload.ResponseData.TranslatedText) == 0 {
		return "", fmt.Errorf("%w: missing translatedText", ports.ErrNoTranslation)
	}

	// null is a translation with no text
	var translated *string
	if err := json.Unmarshal(payload.ResponseData.TranslatedText, &translated); err != nil {
		return "", fmt.Errorf("failed to decode translatedText: %w", err)
	}
	if translated == nil {
		return "", nil
	}
	return *translated, nil
}

func (c *Client) buildURL(req ports.TranslateRequest) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", req.Text)
	q.Set("langpair", fmt.Sprintf("%s|%s", req.SourceLang, req.TargetLang))
	if c.email != "" {
		q.Set("de", c.email)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
