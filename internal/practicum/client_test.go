package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	logx "reviewbot/pkg/logx"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Token: "secret", Endpoint: srv.URL, Timeout: 2 * time.Second}, logx.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestFetchOK(t *testing.T) {
	t.Parallel()
	var gotAuth, gotFrom string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Write([]byte(`{"homeworks":[],"current_date":1000}`))
	})

	payload, err := c.Fetch(context.Background(), 123)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotAuth != "OAuth secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotFrom != "123" {
		t.Fatalf("from_date = %q", gotFrom)
	}
	report, err := Validate(payload)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.CurrentDate != 1000 {
		t.Fatalf("CurrentDate = %d", report.CurrentDate)
	}
}

func TestFetchClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   string
		kind   PollErrorKind
	}{
		{name: "server error", status: http.StatusInternalServerError, kind: KindTransient},
		{name: "bad gateway", status: http.StatusBadGateway, kind: KindTransient},
		{name: "rate limited", status: http.StatusTooManyRequests, kind: KindTransient},
		{name: "bad request", status: http.StatusBadRequest, kind: KindClientRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, kind: KindClientRequest},
		{name: "not found", status: http.StatusNotFound, kind: KindClientRequest},
		{name: "malformed body", status: http.StatusOK, body: `{"homeworks": [`, kind: KindMalformedPayload},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			})
			_, err := c.Fetch(context.Background(), 1)
			var pe *PollError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *PollError", err)
			}
			if pe.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", pe.Kind, tt.kind)
			}
			if pe.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", pe.StatusCode, tt.status)
			}
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	t.Parallel()
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.Fetch(context.Background(), 1)
	var pe *PollError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PollError", err)
	}
	if pe.Kind != KindTransient {
		t.Fatalf("kind = %v, want transient", pe.Kind)
	}
}

func TestNewClientRejectsEmptyToken(t *testing.T) {
	t.Parallel()
	if _, err := NewClient(Config{Endpoint: "http://localhost"}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty token")
	}
}
