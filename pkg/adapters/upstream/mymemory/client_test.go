package mymemory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aescanero/transrelay/pkg/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/get", "", time.Second, nil)
}

func TestClient_Translate_Success(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/get" {
			t.Errorf("expected path /get, got %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"Xin chào","match":1}}`))
	})

	got, err := client.Translate(context.Background(), ports.TranslateRequest{
		Text:       "Hello & goodbye?",
		SourceLang: "auto",
		TargetLang: "vi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Xin chào" {
		t.Errorf("expected 'Xin chào', got %q", got)
	}
	if q := gotQuery["q"]; len(q) != 1 || q[0] != "Hello & goodbye?" {
		t.Errorf("expected text to round-trip through the query, got %v", q)
	}
	if lp := gotQuery["langpair"]; len(lp) != 1 || lp[0] != "auto|vi" {
		t.Errorf("expected langpair 'auto|vi', got %v", lp)
	}
	if _, ok := gotQuery["de"]; ok {
		t.Error("expected no 'de' parameter without an email")
	}
}

func TestClient_Translate_SendsEmail(t *testing.T) {
	var de string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		de = r.URL.Query().Get("de")
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"Bonjour"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "ops@example.com", time.Second, nil)
	if _, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "fr"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if de != "ops@example.com" {
		t.Errorf("expected de=ops@example.com, got %q", de)
	}
}

func TestClient_Translate_EmptyTranslationIsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":""}}`))
	})

	got, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "x", SourceLang: "en", TargetLang: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty translation, got %q", got)
	}
}

func TestClient_Translate_NullTranslationIsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":null}}`))
	})

	got, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "x", SourceLang: "en", TargetLang: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty translation, got %q", got)
	}
}

func TestClient_Translate_FloatStatusIsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":200.0,"responseData":{"translatedText":"hola"}}`))
	})

	got, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "hello", SourceLang: "en", TargetLang: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hola" {
		t.Errorf("expected 'hola', got %q", got)
	}
}

func TestClient_Translate_NonStringTranslation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":42}}`))
	})

	_, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "x", SourceLang: "en", TargetLang: "fr"})
	if err == nil {
		t.Fatal("expected error for a non-string translatedText")
	}
	if errors.Is(err, ports.ErrNoTranslation) {
		t.Error("a decoding failure must not be reported as an upstream rejection")
	}
}

func TestClient_Translate_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"status 403", `{"responseStatus":403,"responseDetails":"INVALID LANGUAGE PAIR","responseData":{"translatedText":"INVALID"}}`},
		{"status as string", `{"responseStatus":"403","responseDetails":"INVALID EMAIL"}`},
		{"string 200", `{"responseStatus":"200","responseData":{"translatedText":"hola"}}`},
		{"boolean status", `{"responseStatus":true,"responseData":{"translatedText":"hola"}}`},
		{"missing status", `{"responseData":{"translatedText":"hola"}}`},
		{"null response data", `{"responseStatus":200,"responseData":null}`},
		{"empty response data", `{"responseStatus":200,"responseData":{}}`},
		{"missing response data", `{"responseStatus":200}`},
		{"non-integral status", `{"responseStatus":200.5,"responseData":{"translatedText":"hola"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
			if !errors.Is(err, ports.ErrNoTranslation) {
				t.Errorf("expected ErrNoTranslation, got %v", err)
			}
		})
	}
}

func TestClient_Translate_IgnoresHTTPStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"responseStatus":429,"responseDetails":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY"}`))
	})

	_, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
	if !errors.Is(err, ports.ErrNoTranslation) {
		t.Errorf("expected ErrNoTranslation for a JSON error payload, got %v", err)
	}
}

func TestClient_Translate_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if errors.Is(err, ports.ErrNoTranslation) {
		t.Error("malformed JSON must not be reported as an upstream rejection")
	}
	if !strings.Contains(err.Error(), "failed to decode response") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestClient_Translate_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, "", 50*time.Millisecond, nil)

	_, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if errors.Is(err, ports.ErrNoTranslation) {
		t.Error("timeout must not be reported as an upstream rejection")
	}
}

func TestClient_Translate_TimeoutHidesRequestURL(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL+"/get", "ops@example.com", 50*time.Millisecond, nil)

	_, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "secret text", SourceLang: "auto", TargetLang: "en"})
	if err == nil {
		t.Fatal("expected timeout error")
	}

	msg := err.Error()
	for _, leaked := range []string{"ops%40example.com", "ops@example.com", "secret", server.URL} {
		if strings.Contains(msg, leaked) {
			t.Errorf("expected error not to contain %q, got %q", leaked, msg)
		}
	}
	if !strings.HasPrefix(msg, "request failed: ") {
		t.Errorf("unexpected error message: %v", msg)
	}
}

func TestClient_Translate_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/get", "", 100*time.Millisecond, nil)

	_, err := client.Translate(context.Background(), ports.TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"})
	if err == nil {
		t.Error("expected error when upstream is unreachable")
	}
}

func TestClient_Name(t *testing.T) {
	client := NewClient("", "", time.Second, nil)

	if client.Name() != "mymemory" {
		t.Errorf("expected 'mymemory', got %q", client.Name())
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", client.baseURL)
	}
}
